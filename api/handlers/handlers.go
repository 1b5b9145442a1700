package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"review-digest/services"
)

// ListDigestHandler godoc
// @Summary      List digest rows
// @Description  Top products of the latest digest, optionally for one cluster
// @Tags         digest
// @Param        cluster  query  string  false  "Category cluster"
// @Produce      json
// @Success      200  {array}  dto.DigestRowDTO
// @Router       /digest [get]
func ListDigestHandler(svc *services.DigestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context(), services.ListDigestInput{Cluster: c.Query("cluster")})
		if err != nil {
			writeDigestError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// ListClustersHandler godoc
// @Summary      List clusters
// @Description  Clusters of the latest digest with their product counts
// @Tags         digest
// @Produce      json
// @Success      200  {array}  dto.ClusterDTO
// @Router       /clusters [get]
func ListClustersHandler(svc *services.DigestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.Clusters(c.Request.Context())
		if err != nil {
			writeDigestError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// ListRunsHandler godoc
// @Summary      List runs
// @Description  Most recent digest runs
// @Tags         runs
// @Param        limit  query  int  false  "Max runs (<=100)"
// @Produce      json
// @Success      200  {array}  dto.RunDTO
// @Router       /runs [get]
func ListRunsHandler(svc *services.RunService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		items, err := svc.Latest(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func writeDigestError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNoDigest) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
