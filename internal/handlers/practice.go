package handlers

import (
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/yungbote/lingobridge-backend/internal/logger"
  "github.com/yungbote/lingobridge-backend/internal/requestdata"
  "github.com/yungbote/lingobridge-backend/internal/services"
)

type PracticeHandler struct {
  log         *logger.Logger
  practiceSvc services.PracticeService
  exerciseSvc services.ExerciseService
}

func NewPracticeHandler(log *logger.Logger, practiceSvc services.PracticeService, exerciseSvc services.ExerciseService) *PracticeHandler {
  return &PracticeHandler{
    log:         log.With("handler", "PracticeHandler"),
    practiceSvc: practiceSvc,
    exerciseSvc: exerciseSvc,
  }
}

// GET /api/practice/due?limit=
// Records whose next review has come, earliest first.
func (h *PracticeHandler) GetDue(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }

  limit := intQuery(c, "limit", 10)

  records, err := h.practiceSvc.ListDue(c.Request.Context(), rd.UserID, limit)
  if err != nil {
    h.log.Error("GetDue failed", "error", err, "user_id", rd.UserID)
    RespondServiceError(c, "list_due_failed", err)
    return
  }
  RespondOK(c, gin.H{"items": records, "count": len(records)})
}

type exercisesRequest struct {
  VocabularyID    uuid.UUID `json:"vocabulary_id" binding:"required"`
  Term            string    `json:"term"`
  Definition      string    `json:"definition"`
  ExampleSentence string    `json:"example_sentence"`
}

// POST /api/practice/exercises
// Exercises for one vocabulary item: from the shared bank when at least two
// are cached, freshly generated (or synthesized) otherwise.
func (h *PracticeHandler) GetExercises(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }

  var req exercisesRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }

  exercises, source, err := h.exerciseSvc.ResolveExercises(c.Request.Context(), rd.UserID, req.VocabularyID, req.Term, req.Definition, req.ExampleSentence)
  if err != nil {
    h.log.Error("GetExercises failed", "error", err, "user_id", rd.UserID, "vocabulary_id", req.VocabularyID)
    RespondServiceError(c, "resolve_exercises_failed", err)
    return
  }
  RespondOK(c, gin.H{"exercises": exercises, "source": source})
}

type sessionResultRequest struct {
  LearningRecordID    uuid.UUID `json:"learning_record_id" binding:"required"`
  ExercisesCompleted  int       `json:"exercises_completed"`
  ExercisesCorrect    int       `json:"exercises_correct"`
  PronunciationPlayed bool      `json:"pronunciation_played"`
}

// POST /api/practice/session-result
// Apply one finished practice session to its learning record.
func (h *PracticeHandler) SubmitSessionResult(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }

  var req sessionResultRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }

  outcome, err := h.practiceSvc.SubmitSessionResult(c.Request.Context(), rd.UserID, &services.SessionResultInput{
    LearningRecordID:    req.LearningRecordID,
    ExercisesCompleted:  req.ExercisesCompleted,
    ExercisesCorrect:    req.ExercisesCorrect,
    PronunciationPlayed: req.PronunciationPlayed,
  })
  if err != nil {
    h.log.Error("SubmitSessionResult failed", "error", err, "user_id", rd.UserID, "record_id", req.LearningRecordID)
    RespondServiceError(c, "session_result_failed", err)
    return
  }
  RespondOK(c, outcome)
}

type attemptRequest struct {
  LearningRecordID uuid.UUID  `json:"learning_record_id" binding:"required"`
  ExerciseID       *uuid.UUID `json:"exercise_id"`
  ExerciseType     string     `json:"exercise_type"`
  IsCorrect        bool       `json:"is_correct"`
  TimeTakenSeconds int        `json:"time_taken_seconds"`
}

// PUT /api/practice/attempt
// Append one exercise attempt to the log.
func (h *PracticeHandler) RecordAttempt(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
    return
  }

  var req attemptRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }

  err := h.exerciseSvc.RecordAttempt(c.Request.Context(), rd.UserID, &services.AttemptInput{
    LearningRecordID: req.LearningRecordID,
    ExerciseID:       req.ExerciseID,
    ExerciseType:     req.ExerciseType,
    IsCorrect:        req.IsCorrect,
    TimeTakenSeconds: req.TimeTakenSeconds,
  })
  if err != nil {
    h.log.Error("RecordAttempt failed", "error", err, "user_id", rd.UserID, "record_id", req.LearningRecordID)
    RespondServiceError(c, "record_attempt_failed", err)
    return
  }
  RespondOK(c, gin.H{"message": "attempt recorded"})
}

func intQuery(c *gin.Context, key string, defaultVal int) int {
  raw := c.Query(key)
  if raw == "" {
    return defaultVal
  }
  v, err := strconv.Atoi(raw)
  if err != nil || v < 0 {
    return defaultVal
  }
  return v
}
