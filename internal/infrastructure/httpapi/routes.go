package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ersonp/famitree/internal/application/handlers"
	"github.com/ersonp/famitree/internal/domain/entities"
)

func (a *api) handleDB(c *gin.Context) {
	c.JSON(http.StatusOK, a.tree.HandleSnapshot())
}

func (a *api) handleTree(c *gin.Context) {
	male, _ := strconv.ParseBool(c.Query("male"))
	res, err := a.tree.HandleTree(handlers.TreeOptions{
		Root:     c.Query("root"),
		MaleOnly: male,
		Query:    c.Query("q"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (a *api) handleListPeople(c *gin.Context) {
	c.JSON(http.StatusOK, a.people.HandleList())
}

func (a *api) handleShowPerson(c *gin.Context) {
	d, err := a.people.HandleShow(c.Param("id"), a.now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (a *api) handleAncestors(c *gin.Context) {
	levels, err := queryInt(c, "levels")
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := a.tree.HandleAncestors(c.Param("id"), levels)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (a *api) handleBranch(c *gin.Context) {
	res, err := a.tree.HandleBranch(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (a *api) handleSummary(c *gin.Context) {
	res, err := a.tree.HandleSummary(c.Query("branch"), a.now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (a *api) handleReminders(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := a.reminders.Handle(c.Query("branch"), limit, a.now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (a *api) handleAddPerson(c *gin.Context) {
	var req entities.Person
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	p, err := a.people.HandleAdd(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// personPatch is a partial update. Omitted fields are left alone.
type personPatch struct {
	Name       *string              `json:"name"`
	Title      *string              `json:"title"`
	Address    *string              `json:"address"`
	BirthPlace *string              `json:"birthPlace"`
	BuriedAt   *string              `json:"buriedAt"`
	Notes      *string              `json:"notes"`
	Avatar     *string              `json:"avatar"`
	Gender     *entities.Gender     `json:"gender"`
	BirthDate  *entities.FlexDate   `json:"birthDate"`
	DeathDate  *entities.FlexDate   `json:"deathDate"`
	MemberRole *entities.MemberRole `json:"memberRole"`
}

func (p personPatch) update() entities.PersonUpdate {
	return entities.PersonUpdate{
		Name:       p.Name,
		Title:      p.Title,
		Address:    p.Address,
		BirthPlace: p.BirthPlace,
		BuriedAt:   p.BuriedAt,
		Notes:      p.Notes,
		Avatar:     p.Avatar,
		Gender:     p.Gender,
		BirthDate:  p.BirthDate,
		DeathDate:  p.DeathDate,
		MemberRole: p.MemberRole,
	}
}

func (a *api) handleUpdatePerson(c *gin.Context) {
	var req personPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	p, err := a.people.HandleUpdate(c.Request.Context(), c.Param("id"), req.update())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (a *api) handleDeletePerson(c *gin.Context) {
	if err := a.people.HandleDelete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// relationshipRequest creates a parent or spouse edge. For "parent",
// personId is the parent and relatedId the child.
type relationshipRequest struct {
	Kind      string `json:"kind" binding:"required,oneof=parent spouse"`
	PersonID  string `json:"personId" binding:"required"`
	RelatedID string `json:"relatedId" binding:"required"`
	Subtype   string `json:"subtype"`
}

func (a *api) handleAddRelationship(c *gin.Context) {
	var req relationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	var (
		rel *entities.Relationship
		err error
	)
	if req.Kind == "spouse" {
		rel, err = a.relations.HandleAddSpouse(c.Request.Context(), req.PersonID, req.RelatedID)
	} else {
		rel, err = a.relations.HandleAddParent(c.Request.Context(), req.PersonID, req.RelatedID, req.Subtype)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rel)
}

func (a *api) handleRemoveRelationship(c *gin.Context) {
	if err := a.relations.HandleRemove(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
