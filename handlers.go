package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fitocr/models"
	"fitocr/pkg/auth"
	"fitocr/pkg/config"
	"fitocr/pkg/extract"
	"fitocr/pkg/naming"
	"fitocr/pkg/ocr"
	"fitocr/pkg/store"
	"fitocr/pkg/workout"
	"fitocr/process/report"
)

const (
	maxUploadBytes     = 5 * 1024 * 1024
	maxTranscriptBytes = 256 * 1024
)

type app struct {
	store      *store.Store
	tokens     *auth.Issuer
	ocr        ocr.Transcriber
	extractor  *extract.Extractor
	uploadBase string
}

func setupRoutes(r *gin.Engine, a *app) {
	r.POST("/register", a.registerHandler)
	r.POST("/login", a.loginHandler)
	r.POST("/extract", a.extractHandler)
	authGroup := r.Group("")
	authGroup.Use(a.jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.POST("/screenshots", a.uploadScreenshotHandler)
	authGroup.GET("/workouts", a.listWorkoutsHandler)
	authGroup.GET("/workouts/summary", a.workoutSummaryHandler)
}

// extractHandler runs the extractors over a raw transcript body.
// ?variant=training selects the layout, ?explain=1 adds the candidates.
func (a *app) extractHandler(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxTranscriptBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read body failed"})
		return
	}
	if len(body) > maxTranscriptBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "transcript too large"})
		return
	}
	ex := a.extractor
	if v := c.Query("variant"); v != "" {
		variant, err := config.ParseVariant(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ex = ex.WithVariant(variant)
	}
	if c.Query("explain") == "1" {
		c.JSON(http.StatusOK, ex.Explain(string(body)))
		return
	}
	c.JSON(http.StatusOK, ex.Extract(string(body)))
}

// uploadScreenshotHandler stores a multipart image for the current user, runs
// OCR and extraction and upserts the workout keyed by the original file name.
func (a *app) uploadScreenshotHandler(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	name := filepath.Base(file.Filename)
	if !ocr.IsSupported(name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
		return
	}

	dir := filepath.Join(a.uploadBase, user.Username)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	stored := uuid.New().String() + filepath.Ext(name)
	fullPath := filepath.Join(dir, stored)
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	shot := models.Screenshot{
		UserID:      user.ID,
		FileName:    name,
		StorePath:   filepath.ToSlash(filepath.Join(user.Username, stored)),
		ContentType: file.Header.Get("Content-Type"),
	}
	if err := a.store.CreateScreenshot(&shot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}

	ctxName, nameErr := naming.Parse(name)
	if nameErr != nil {
		log.Printf("WARN upload %s: %v", name, nameErr)
	}
	text, ocrErr := a.ocr.Transcribe(c.Request.Context(), fullPath)
	if ocrErr != nil {
		log.Printf("OCR fail upload=%d %s: %v", shot.ID, name, ocrErr)
		shot.Failed = true
		shot.FailedReason = truncate(ocrErr.Error(), 255)
	}
	row := workout.Build(ctxName, a.extractor.Extract(text), time.Now())
	w := models.NewWorkout(user.ID, name, models.SourceUpload, row)
	if err := a.store.SaveWorkout(&w); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "workout save failed"})
		return
	}
	shot.WorkoutID = &w.ID
	if err := a.store.UpdateScreenshot(&shot); err != nil {
		log.Printf("WARN link screenshot %d: %v", shot.ID, err)
	}

	resp := gin.H{"screenshot_id": shot.ID, "workout_id": w.ID, "workout": row, "ocr_failed": shot.Failed}
	if nameErr != nil {
		resp["warning"] = nameErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// workoutFilter scopes queries to the caller unless they are an administrator.
func (a *app) workoutFilter(c *gin.Context) (store.WorkoutFilter, bool) {
	user, ok := a.currentUser(c)
	if !ok {
		return store.WorkoutFilter{}, false
	}
	f := store.WorkoutFilter{Month: c.Query("month"), Limit: 200}
	if f.Month != "" {
		if err := report.ValidateMonth(f.Month); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return f, false
		}
	}
	if !isAdmin(c) {
		f.UserID = &user.ID
	}
	return f, true
}

func (a *app) listWorkoutsHandler(c *gin.Context) {
	f, ok := a.workoutFilter(c)
	if !ok {
		return
	}
	items, err := a.store.ListWorkouts(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (a *app) workoutSummaryHandler(c *gin.Context) {
	if c.Query("month") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month is required (YYYY-MM)"})
		return
	}
	f, ok := a.workoutFilter(c)
	if !ok {
		return
	}
	f.Limit = 0
	items, err := a.store.ListWorkouts(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	rows := make([]workout.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, it.Row())
	}
	c.JSON(http.StatusOK, report.Summarize(rows, f.Month))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

