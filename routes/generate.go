package routes

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-post-studio/internal/pipeline"
	"social-post-studio/internal/store"
	"social-post-studio/models"
	"social-post-studio/services"
	"social-post-studio/utils"
)

// GenerateRequest is the /generate request body.
type GenerateRequest struct {
	Topic           string               `json:"topic" binding:"required"`
	Tone            pipeline.Tone        `json:"tone"`
	Platform        pipeline.Platform    `json:"platform"`
	VisualStyle     pipeline.VisualStyle `json:"visual_style"`
	BrandGuidelines string               `json:"brand_guidelines"`
	MaxLength       int                  `json:"max_length"`
	ReferenceURL    string               `json:"reference_url"`
	Stream          bool                 `json:"stream"`
	GenerateImage   *bool                `json:"generate_image"`
	Save            bool                 `json:"save"`
}

type imageGenerateRequest struct {
	VisualPrompt string               `json:"visual_prompt" binding:"required"`
	VisualStyle  pipeline.VisualStyle `json:"visual_style"`
}

func SetupGenerateRoutes(
	router *gin.Engine,
	generator *services.GeneratorService,
	toneAdjuster *services.ToneAdjuster,
	hashtagService *services.HashtagService,
	promptRefiner *services.PromptRefiner,
	analyzer *services.ContentAnalyzer,
	postStore store.PostStore,
) {
	router.POST("/generate", func(c *gin.Context) {
		var req GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}
		if err := validateEnums(req.Tone, req.Platform, req.VisualStyle); err != nil {
			utils.RespondWithBadRequest(c, err.Error(), nil)
			return
		}

		params := services.GenerateParams{
			PostRequest: pipeline.PostRequest{
				Topic:           req.Topic,
				Tone:            req.Tone,
				Platform:        req.Platform,
				VisualStyle:     req.VisualStyle,
				BrandGuidelines: req.BrandGuidelines,
				MaxLength:       req.MaxLength,
			},
			ReferenceURL:  req.ReferenceURL,
			GenerateImage: req.GenerateImage == nil || *req.GenerateImage,
		}
		params.ApplyDefaults()

		if req.Stream {
			// Streamed responses forward raw provider chunks; no image
			// generation, formatting, or persistence happens on this path.
			ch, err := generator.GeneratePostStream(c.Request.Context(), params)
			if err != nil {
				utils.RespondWithPipelineError(c, err)
				return
			}

			c.Header("Content-Type", "text/plain; charset=utf-8")
			c.Header("X-Accel-Buffering", "no")
			c.Status(http.StatusOK)
			c.Stream(func(w io.Writer) bool {
				chunk, ok := <-ch
				if !ok {
					return false
				}
				_, _ = w.Write([]byte(chunk))
				return true
			})
			return
		}

		out, err := generator.GeneratePost(c.Request.Context(), params)
		if err != nil {
			utils.RespondWithPipelineError(c, err)
			return
		}

		response := gin.H{
			"mainContent":  out.MainContent,
			"caption":      out.Caption,
			"hashtags":     out.Hashtags,
			"visualPrompt": out.VisualPrompt,
		}
		if out.ImageURL != "" {
			response["imageUrl"] = out.ImageURL
		}

		if req.Save {
			saved, err := postStore.Save(c.Request.Context(), &models.Post{
				Prompt:      req.Topic,
				Content:     out.MainContent,
				Caption:     out.Caption,
				Hashtags:    out.Hashtags,
				ImageURL:    out.ImageURL,
				Tone:        string(params.Tone),
				VisualStyle: string(params.VisualStyle),
				Platform:    string(params.Platform),
			})
			if err != nil {
				utils.RespondWithPipelineError(c, err)
				return
			}
			response["post_id"] = saved.ID
		}

		c.JSON(http.StatusOK, response)
	})

	router.POST("/generate/image", func(c *gin.Context) {
		var req imageGenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		url, err := generator.GenerateImage(c.Request.Context(), req.VisualPrompt, req.VisualStyle)
		if err != nil {
			utils.RespondWithPipelineError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"imageUrl": url})
	})

	// Refinement endpoints degrade to content-preserving defaults instead of
	// failing, so they always answer 200 for well-formed requests.
	router.POST("/refine/tone", func(c *gin.Context) {
		var req services.ToneAdjustRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, toneAdjuster.Adjust(c.Request.Context(), req))
	})

	router.POST("/refine/prompt", func(c *gin.Context) {
		var req services.RefinePromptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, promptRefiner.Refine(c.Request.Context(), req))
	})

	router.POST("/hashtags", func(c *gin.Context) {
		var req services.HashtagRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, hashtagService.Generate(c.Request.Context(), req))
	})

	router.POST("/analyze", func(c *gin.Context) {
		var req services.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, analyzer.Analyze(c.Request.Context(), req))
	})
}

func validateEnums(tone pipeline.Tone, platform pipeline.Platform, style pipeline.VisualStyle) error {
	if tone != "" && !tone.Valid() {
		return &invalidEnumError{field: "tone"}
	}
	if platform != "" && !platform.Valid() {
		return &invalidEnumError{field: "platform"}
	}
	if style != "" && !style.Valid() {
		return &invalidEnumError{field: "visual_style"}
	}
	return nil
}

type invalidEnumError struct {
	field string
}

func (e *invalidEnumError) Error() string {
	return "unsupported value for " + e.field
}
