package services

import (
  "bytes"
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "io"
  "net/http"
  "strings"
  "time"

  "github.com/yungbote/lingobridge-backend/internal/logger"
  "github.com/yungbote/lingobridge-backend/internal/pkg/httpx"
  "github.com/yungbote/lingobridge-backend/internal/utils"
)

// openAIGenerator talks to the OpenAI Responses API with structured outputs
// (json_schema), so malformed model output fails the decode instead of
// leaking half-parsed content into the catalog.
type openAIGenerator struct {
  log        *logger.Logger
  baseURL    string
  apiKey     string
  model      string
  httpClient *http.Client

  callTimeout time.Duration
  maxRetries  int
}

func NewOpenAIGenerator(log *logger.Logger) (ContentGenerator, error) {
  serviceLog := log.With("service", "OpenAIGenerator")

  apiKey := utils.GetEnv("OPENAI_API_KEY", "", log)
  if apiKey == "" {
    return nil, fmt.Errorf("missing OPENAI_API_KEY")
  }
  baseURL := utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com", log)
  model := utils.GetEnv("OPENAI_MODEL", "gpt-4o-mini", log)

  // Generation must never hold a save or practice request hostage; the
  // deadline here is what triggers the caller's fallback path.
  timeoutSec := utils.GetEnvAsInt("GENERATOR_TIMEOUT_SECONDS", 30, log)
  maxRetries := utils.GetEnvAsInt("GENERATOR_MAX_RETRIES", 2, log)

  return &openAIGenerator{
    log:         serviceLog,
    baseURL:     baseURL,
    apiKey:      apiKey,
    model:       model,
    httpClient:  &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
    callTimeout: time.Duration(timeoutSec) * time.Second,
    maxRetries:  maxRetries,
  }, nil
}

func (c *openAIGenerator) ModelName() string { return c.model }

func (c *openAIGenerator) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
  var buf bytes.Buffer
  if body != nil {
    if err := json.NewEncoder(&buf).Encode(body); err != nil {
      return nil, nil, err
    }
  }

  req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
  if err != nil {
    return nil, nil, err
  }
  req.Header.Set("Authorization", "Bearer "+c.apiKey)
  req.Header.Set("Content-Type", "application/json")

  resp, err := c.httpClient.Do(req)
  if err != nil {
    return nil, nil, err
  }

  raw, readErr := io.ReadAll(resp.Body)
  _ = resp.Body.Close()
  if readErr != nil {
    return resp, nil, readErr
  }

  if resp.StatusCode < 200 || resp.StatusCode >= 300 {
    return resp, raw, &httpx.StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
  }
  return resp, raw, nil
}

func (c *openAIGenerator) do(ctx context.Context, method, path string, body any, out any) error {
  backoff := 1 * time.Second

  for attempt := 0; attempt <= c.maxRetries; attempt++ {
    if ctx.Err() != nil {
      return ctx.Err()
    }

    resp, raw, err := c.doOnce(ctx, method, path, body)
    if err == nil {
      if out == nil {
        return nil
      }
      if uErr := json.Unmarshal(raw, out); uErr != nil {
        return fmt.Errorf("openai decode error: %w; raw=%s", uErr, string(raw))
      }
      return nil
    }

    if !httpx.IsRetryableError(err) {
      return err
    }
    if attempt == c.maxRetries {
      return err
    }

    sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
    sleepFor = httpx.JitterSleep(sleepFor)

    c.log.Warn("OpenAI request retrying",
      "path", path,
      "attempt", attempt+1,
      "max_retries", c.maxRetries,
      "sleep", sleepFor.String(),
      "error", err.Error(),
    )

    time.Sleep(sleepFor)
    backoff *= 2
  }

  return fmt.Errorf("unreachable retry loop")
}

// ---- Responses JSON (Structured Outputs via text.format json_schema) ----

type responsesRequest struct {
  Model string `json:"model"`
  Input []struct {
    Role    string `json:"role"`
    Content string `json:"content"`
  } `json:"input"`
  Text struct {
    Format map[string]any `json:"format"`
  } `json:"text"`
  Temperature float64 `json:"temperature,omitempty"`
}

type responsesResponse struct {
  Output []struct {
    Type    string `json:"type"`
    Role    string `json:"role,omitempty"`
    Content []struct {
      Type string `json:"type"`
      Text string `json:"text,omitempty"`
    } `json:"content,omitempty"`
  } `json:"output"`
  Refusal string `json:"refusal,omitempty"`
}

func (c *openAIGenerator) generateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any, out any) error {
  ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
  defer cancel()

  req := responsesRequest{
    Model: c.model,
    Input: []struct {
      Role    string `json:"role"`
      Content string `json:"content"`
    }{
      {Role: "system", Content: system},
      {Role: "user", Content: user},
    },
    Temperature: 0.3,
  }
  req.Text.Format = map[string]any{
    "type":   "json_schema",
    "name":   schemaName,
    "schema": schema,
    "strict": true,
  }

  var resp responsesResponse
  if err := c.do(ctx, "POST", "/v1/responses", req, &resp); err != nil {
    return err
  }
  if resp.Refusal != "" {
    return fmt.Errorf("model refused: %s", resp.Refusal)
  }

  var jsonText string
  for _, item := range resp.Output {
    if item.Type == "message" && item.Role == "assistant" {
      for _, part := range item.Content {
        if part.Type == "output_text" && part.Text != "" {
          jsonText += part.Text
        }
      }
    }
  }
  if jsonText == "" {
    return errors.New("no output_text found in response")
  }

  if err := json.Unmarshal([]byte(jsonText), out); err != nil {
    return fmt.Errorf("failed to parse model JSON: %w; text=%s", err, jsonText)
  }
  return nil
}

func stringArraySchema() map[string]any {
  return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

var definitionSchema = map[string]any{
  "type": "object",
  "properties": map[string]any{
    "definition":        map[string]any{"type": "string"},
    "translation":       map[string]any{"type": "string"},
    "pronunciation":     map[string]any{"type": "string"},
    "word_class":        map[string]any{"type": "string"},
    "collocations":      stringArraySchema(),
    "synonyms":          stringArraySchema(),
    "related_words":     stringArraySchema(),
    "usage_notes":       map[string]any{"type": "string"},
    "example_sentences": stringArraySchema(),
  },
  "required": []string{
    "definition", "translation", "pronunciation", "word_class",
    "collocations", "synonyms", "related_words", "usage_notes",
    "example_sentences",
  },
  "additionalProperties": false,
}

func (c *openAIGenerator) GenerateDefinition(ctx context.Context, term string, hints DefinitionHints) (*GeneratedDefinition, error) {
  system := "You are a lexicographer for an English-learning app. " +
    "Produce concise, learner-friendly dictionary content."

  var sb strings.Builder
  fmt.Fprintf(&sb, "Create a dictionary entry for the term %q.\n", term)
  if hints.SentenceContext != "" {
    fmt.Fprintf(&sb, "It appeared in this sentence: %q\n", hints.SentenceContext)
  }
  if hints.WordClass != "" {
    fmt.Fprintf(&sb, "Word class: %s\n", hints.WordClass)
  }
  if hints.Definition != "" {
    fmt.Fprintf(&sb, "The learner's own definition (refine it): %q\n", hints.Definition)
  }
  if hints.Translation != "" {
    fmt.Fprintf(&sb, "The learner's own translation (refine it): %q\n", hints.Translation)
  }
  if hints.Level != "" {
    fmt.Fprintf(&sb, "Target learner level: %s\n", hints.Level)
  }
  sb.WriteString("Include 2-3 collocations, 2-4 synonyms, 2-4 related words and 2 example sentences.")

  var out GeneratedDefinition
  if err := c.generateJSON(ctx, system, sb.String(), "vocabulary_definition", definitionSchema, &out); err != nil {
    return nil, err
  }
  if strings.TrimSpace(out.Definition) == "" {
    return nil, errors.New("generator returned empty definition")
  }
  return &out, nil
}

var exercisesSchema = map[string]any{
  "type": "object",
  "properties": map[string]any{
    "exercises": map[string]any{
      "type": "array",
      "items": map[string]any{
        "type": "object",
        "properties": map[string]any{
          "type":           map[string]any{"type": "string", "enum": []string{"meaning_check", "context_check"}},
          "question":       map[string]any{"type": "string"},
          "correct_answer": map[string]any{"type": "string"},
          "options":        stringArraySchema(),
          "explanation":    map[string]any{"type": "string"},
        },
        "required":             []string{"type", "question", "correct_answer", "options", "explanation"},
        "additionalProperties": false,
      },
    },
  },
  "required":             []string{"exercises"},
  "additionalProperties": false,
}

func (c *openAIGenerator) GenerateExercises(ctx context.Context, term, definition, example string) ([]GeneratedExercise, error) {
  system := "You are an exercise author for an English-learning app. " +
    "Write multiple-choice questions with plausible distractors."

  user := fmt.Sprintf(
    "Write exactly 2 multiple-choice exercises for the word %q.\n"+
      "Definition: %s\n"+
      "Example sentence: %s\n"+
      "The first exercise must have type \"meaning_check\" (test the meaning), "+
      "the second type \"context_check\" (fill the word into a sentence).\n"+
      "Each exercise has exactly 4 options, exactly one of which is the correct answer.",
    term, definition, example,
  )

  var out struct {
    Exercises []GeneratedExercise `json:"exercises"`
  }
  if err := c.generateJSON(ctx, system, user, "vocabulary_exercises", exercisesSchema, &out); err != nil {
    return nil, err
  }
  if len(out.Exercises) != 2 {
    return nil, fmt.Errorf("generator returned %d exercises, want 2", len(out.Exercises))
  }
  for i, ex := range out.Exercises {
    if !ValidExercise(ex) {
      return nil, fmt.Errorf("generator exercise %d failed validation (%s)", i, ex.Type)
    }
  }
  return out.Exercises, nil
}
