package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	trailerrors "github.com/adalundhe/trailhead/core/errors"
	"github.com/adalundhe/trailhead/core/schema"
)

func (s *Server) healthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "ok"})
}

func (s *Server) listLocations(c *gin.Context) {
	records, err := s.store.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []schema.LocationRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": records})
}

func (s *Server) getLocation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	record, err := s.store.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": record})
}

func (s *Server) createLocation(c *gin.Context) {
	record, ok := bindRecord(c)
	if !ok {
		return
	}
	id, err := s.store.Insert(c.Request.Context(), record)
	if err != nil {
		respondError(c, err)
		return
	}
	record.ID = id
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": record})
}

func (s *Server) updateLocation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	record, ok := bindRecord(c)
	if !ok {
		return
	}
	if err := s.store.Update(c.Request.Context(), id, record); err != nil {
		respondError(c, err)
		return
	}
	record.ID = id
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": record})
}

func (s *Server) deleteLocation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "deleted"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, trailerrors.Newf(trailerrors.KindValidation, "parse id",
			"invalid location id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}

// bindRecord decodes a request body into a candidate and runs it through
// the same validation gate the conversational path uses.
func bindRecord(c *gin.Context) (*schema.LocationRecord, bool) {
	var candidate schema.Candidate
	if err := c.ShouldBindJSON(&candidate); err != nil {
		respondError(c, trailerrors.Wrap(trailerrors.KindValidation, "decode body", err))
		return nil, false
	}
	record, err := schema.Validate(&candidate)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return record, true
}
