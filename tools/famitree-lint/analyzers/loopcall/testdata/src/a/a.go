package a

import "context"

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

type PersonIndex interface {
	Delete(ctx context.Context, personID string) error
}

type Persistence interface {
	Save(ctx context.Context, data []byte) error
}

func bad(ctx context.Context, names []string, e Embedder, idx PersonIndex, p Persistence) {
	for _, name := range names {
		e.Embed(ctx, name)        // want "Embed called inside loop: use EmbedBatch"
		idx.Delete(ctx, name)     // want "Delete called inside loop: use DeleteAll"
		p.Save(ctx, []byte(name)) // want "Save called inside loop: use a single Flush"
	}
	for i := 0; i < len(names); i++ {
		e.Embed(ctx, names[i]) // want "Embed called inside loop: use EmbedBatch"
	}
}

func good(ctx context.Context, names []string, e Embedder) {
	e.EmbedBatch(ctx, names)

	var deferred []func()
	for _, name := range names {
		deferred = append(deferred, func() { e.Embed(ctx, name) })
	}
	_ = deferred
}
