package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-post-studio/internal/store"
	"social-post-studio/models"
	"social-post-studio/utils"
)

type createPostRequest struct {
	Prompt      string   `json:"prompt" binding:"required"`
	Content     string   `json:"content" binding:"required"`
	Caption     string   `json:"caption"`
	Hashtags    []string `json:"hashtags"`
	ImageURL    string   `json:"image_url"`
	Tone        string   `json:"tone"`
	VisualStyle string   `json:"visual_style"`
	Platform    string   `json:"platform"`
}

type updatePostRequest struct {
	Prompt   *string   `json:"prompt"`
	Content  *string   `json:"content"`
	Caption  *string   `json:"caption"`
	Hashtags *[]string `json:"hashtags"`
	ImageURL *string   `json:"image_url"`
}

type rejectPostRequest struct {
	FeedbackText string `json:"feedback_text" binding:"required"`
}

func SetupPostRoutes(router *gin.Engine, postStore store.PostStore) {
	router.GET("/posts", func(c *gin.Context) {
		posts, err := postStore.List(c.Request.Context(), c.Query("q"))
		if err != nil {
			utils.RespondWithPipelineError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
	})

	router.GET("/posts/:id", func(c *gin.Context) {
		post, err := postStore.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			utils.RespondWithPipelineError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	})

	router.POST("/posts", func(c *gin.Context) {
		var req createPostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		saved, err := postStore.Save(c.Request.Context(), &models.Post{
			Prompt:      req.Prompt,
			Content:     req.Content,
			Caption:     req.Caption,
			Hashtags:    req.Hashtags,
			ImageURL:    req.ImageURL,
			Tone:        req.Tone,
			VisualStyle: req.VisualStyle,
			Platform:    req.Platform,
		})
		if err != nil {
			utils.RespondWithPipelineError(c, err)
			return
		}
		c.JSON(http.StatusCreated, saved)
	})

	router.PUT("/posts/:id", func(c *gin.Context) {
		var req updatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		post, err := postStore.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			utils.RespondWithPipelineError(c, err)
			return
		}

		if req.Prompt != nil {
			post.Prompt = *req.Prompt
		}
		if req.Content != nil {
			post.Content = *req.Content
		}
		if req.Caption != nil {
			post.Caption = *req.Caption
		}
		if req.Hashtags != nil {
			post.Hashtags = *req.Hashtags
		}
		if req.ImageURL != nil {
			post.ImageURL = *req.ImageURL
		}

		updated, err := postStore.Update(c.Request.Context(), post)
		if err != nil {
			utils.RespondWithPipelineError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	})

	router.DELETE("/posts/:id", func(c *gin.Context) {
		if err := postStore.Delete(c.Request.Context(), c.Param("id")); err != nil {
			utils.RespondWithPipelineError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
	})

	router.POST("/posts/:id/approve", func(c *gin.Context) {
		post, err := postStore.Approve(c.Request.Context(), c.Param("id"))
		if err != nil {
			utils.RespondWithPipelineError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	})

	router.POST("/posts/:id/reject", func(c *gin.Context) {
		var req rejectPostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "feedback_text is required", gin.H{"error": err.Error()})
			return
		}

		post, err := postStore.Reject(c.Request.Context(), c.Param("id"), req.FeedbackText)
		if err != nil {
			utils.RespondWithPipelineError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	})

	router.GET("/posts/:id/feedback", func(c *gin.Context) {
		feedback, err := postStore.ListFeedback(c.Request.Context(), c.Param("id"))
		if err != nil {
			utils.RespondWithPipelineError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"feedback": feedback, "count": len(feedback)})
	})
}
