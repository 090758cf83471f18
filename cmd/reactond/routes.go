package main

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sitharaj88/reacton"
	"github.com/sitharaj88/reacton/extensions"
	"github.com/sitharaj88/reacton/query"
)

func registerRoutes(r *gin.Engine, store *reacton.Store, graphDebug *extensions.GraphDebugExtension, demo *query.Query[string]) {
	v1 := r.Group("/v1")

	v1.GET("/refs/:name", func(c *gin.Context) {
		ref, ok := store.RefByName(c.Param("name"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "reacton: reacton not found"})
			return
		}
		value, _ := store.ValueOf(ref)
		c.JSON(http.StatusOK, gin.H{"name": ref.Name(), "value": value})
	})

	v1.POST("/refs/:name", func(c *gin.Context) {
		ref, ok := store.RefByName(c.Param("name"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "reacton: reacton not found"})
			return
		}
		var body struct {
			Value any `json:"value"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := store.SetRef(ref, body.Value); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"name": ref.Name()})
	})

	v1.GET("/refs/:name/watch", func(c *gin.Context) {
		ref, ok := store.RefByName(c.Param("name"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "reacton: reacton not found"})
			return
		}

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		updates := make(chan any, 8)
		unsubscribe := store.SubscribeRef(ref, func(v any) {
			select {
			case updates <- v:
			default:
			}
		})
		defer unsubscribe()

		c.Stream(func(w io.Writer) bool {
			select {
			case v, ok := <-updates:
				if !ok {
					return false
				}
				c.SSEvent("update", v)
				return true
			case <-c.Request.Context().Done():
				return false
			case <-time.After(30 * time.Second):
				c.SSEvent("ping", nil)
				return true
			}
		})
	})

	v1.GET("/graph", func(c *gin.Context) {
		c.String(http.StatusOK, graphDebug.Render(store))
	})

	v1.GET("/query/demo-upstream", func(c *gin.Context) {
		v, err := demo.FetchQuery(context.Background())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"value": v, "state": demo.State().State})
	})
}
