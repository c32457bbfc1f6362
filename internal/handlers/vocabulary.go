package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/yungbote/lingobridge-backend/internal/logger"
  "github.com/yungbote/lingobridge-backend/internal/requestdata"
  "github.com/yungbote/lingobridge-backend/internal/services"
)

type VocabularyHandler struct {
  log         *logger.Logger
  practiceSvc services.PracticeService
}

func NewVocabularyHandler(log *logger.Logger, practiceSvc services.PracticeService) *VocabularyHandler {
  return &VocabularyHandler{
    log:         log.With("handler", "VocabularyHandler"),
    practiceSvc: practiceSvc,
  }
}

type saveVocabularyRequest struct {
  Term            string   `json:"term" binding:"required"`
  Type            string   `json:"type"`
  Original        string   `json:"original"`
  ExampleSentence string   `json:"example_sentence"`
  SourceType      string   `json:"source_type"`
  EssayRef        string   `json:"essay_ref"`
  Definition      string   `json:"definition"`
  Translation     string   `json:"translation"`
  Explanation     string   `json:"explanation"`
  Tags            []string `json:"tags"`
  Level           string   `json:"level"`
}

// POST /api/vocabulary
// Save a term for the calling learner. Saving again is a no-op and answers
// 200 with the existing record id instead of an error.
func (h *VocabularyHandler) SaveVocabulary(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }

  var req saveVocabularyRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }

  record, created, err := h.practiceSvc.SaveVocabulary(c.Request.Context(), rd.UserID, &services.SaveVocabularyInput{
    Term:            req.Term,
    WordClass:       req.Type,
    Original:        req.Original,
    ExampleSentence: req.ExampleSentence,
    SourceType:      req.SourceType,
    SourceRef:       req.EssayRef,
    Definition:      req.Definition,
    Translation:     req.Translation,
    Explanation:     req.Explanation,
    Tags:            req.Tags,
    Level:           req.Level,
  })
  if err != nil {
    h.log.Error("SaveVocabulary failed", "error", err, "user_id", rd.UserID, "term", req.Term)
    RespondServiceError(c, "save_vocabulary_failed", err)
    return
  }

  if !created {
    RespondOK(c, gin.H{
      "message":            "already saved",
      "learning_record_id": record.ID,
    })
    return
  }

  resp := gin.H{
    "learning_record_id": record.ID,
    "term":               req.Term,
    "example_sentence":   record.ExampleSentence,
    "mastery_state":      record.MasteryState,
    "next_review_at":     record.NextReviewAt,
  }
  if record.Vocabulary != nil {
    resp["term"] = record.Vocabulary.Term
    resp["definition"] = record.Vocabulary.Definition
    resp["translation"] = record.Vocabulary.Translation
  }
  c.JSON(http.StatusCreated, resp)
}

// GET /api/vocabulary?limit=&offset=
// The learner's saved list, newest first, joined with definitions.
func (h *VocabularyHandler) ListSaved(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }

  limit := intQuery(c, "limit", 50)
  offset := intQuery(c, "offset", 0)

  records, err := h.practiceSvc.ListSaved(c.Request.Context(), rd.UserID, limit, offset)
  if err != nil {
    h.log.Error("ListSaved failed", "error", err, "user_id", rd.UserID)
    RespondServiceError(c, "list_vocabulary_failed", err)
    return
  }
  RespondOK(c, gin.H{"items": records, "count": len(records)})
}

// DELETE /api/vocabulary/:id
// Remove one of the caller's own learning records.
func (h *VocabularyHandler) DeleteSaved(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }

  recordID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_record_id", err)
    return
  }

  if err := h.practiceSvc.DeleteRecord(c.Request.Context(), rd.UserID, recordID); err != nil {
    h.log.Error("DeleteSaved failed", "error", err, "user_id", rd.UserID, "record_id", recordID)
    RespondServiceError(c, "delete_vocabulary_failed", err)
    return
  }
  RespondOK(c, gin.H{"message": "deleted"})
}
