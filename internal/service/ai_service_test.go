package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	cfg "github.com/socialmindhq/socialmind/configs"
	"github.com/socialmindhq/socialmind/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiReply(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]string{{"text": text}},
			},
		}},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func newAIServiceForTest(t *testing.T, handler http.HandlerFunc) *aiService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &aiService{
		cfg:     cfg.Config{GeminiAPIKey: "test-key"},
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func TestGenerateCaption(t *testing.T) {
	s := newAIServiceForTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-1.5-flash")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req transfer.GeminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)
		assert.NotNil(t, req.Contents[0].Parts[1].InlineData)
		assert.Equal(t, "image/png", req.Contents[0].Parts[1].InlineData.MimeType)

		fmt.Fprint(w, geminiReply("  A sunny caption.  "))
	})

	caption, err := s.GenerateCaption(context.Background(), []byte("fake-png"), "image/png", "upbeat", "youtube", "beach day")
	require.NoError(t, err)
	assert.Equal(t, "A sunny caption.", caption)
}

func TestGenerateCaptionErrors(t *testing.T) {
	t.Run("empty media", func(t *testing.T) {
		s := newAIServiceForTest(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("request should not be made")
		})
		_, err := s.GenerateCaption(context.Background(), nil, "image/png", "", "", "")
		assert.Error(t, err)
	})

	t.Run("provider error status", func(t *testing.T) {
		s := newAIServiceForTest(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
		})
		_, err := s.GenerateCaption(context.Background(), []byte("x"), "image/png", "", "", "")
		require.Error(t, err)
		// Provider payloads are logged, never echoed to the caller.
		assert.NotContains(t, err.Error(), "quota exceeded")
	})

	t.Run("no candidates", func(t *testing.T) {
		s := newAIServiceForTest(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"candidates":[]}`)
		})
		_, err := s.GenerateCaption(context.Background(), []byte("x"), "image/png", "", "", "")
		assert.ErrorIs(t, err, ErrEmptyAIResponse)
	})

	t.Run("missing api key", func(t *testing.T) {
		s := &aiService{cfg: cfg.Config{}, baseURL: "http://unused", client: http.DefaultClient}
		_, err := s.GenerateCaption(context.Background(), []byte("x"), "image/png", "", "", "")
		assert.Error(t, err)
	})
}

func TestGenerateContentPlanValidation(t *testing.T) {
	s := newAIServiceForTest(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be made")
	})

	tests := []struct {
		name string
		req  *transfer.ContentPlanRequest
	}{
		{name: "nil request", req: nil},
		{name: "zero days", req: &transfer.ContentPlanRequest{Days: 0, Platforms: []string{"youtube"}}},
		{name: "too many days", req: &transfer.ContentPlanRequest{Days: 32, Platforms: []string{"youtube"}}},
		{name: "no platforms", req: &transfer.ContentPlanRequest{Days: 7}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.GenerateContentPlan(context.Background(), tc.req)
			assert.Error(t, err)
		})
	}
}

func TestGenerateContentPlanFromProvider(t *testing.T) {
	plan := transfer.ContentPlan{Days: []transfer.ContentPlanDay{
		{Day: 1, Entries: []transfer.ContentPlanEntry{
			{Platform: "youtube", Idea: "tutorial", Caption: "How it works", BestTime: "18:00"},
		}},
		{Day: 2, Entries: []transfer.ContentPlanEntry{
			{Platform: "youtube", Idea: "q&a", Caption: "You asked", BestTime: "12:00"},
		}},
	}}
	raw, err := json.Marshal(plan)
	require.NoError(t, err)

	s := newAIServiceForTest(t, func(w http.ResponseWriter, r *http.Request) {
		// Models often wrap JSON in prose and code fences.
		fmt.Fprint(w, geminiReply("Here is your plan:\n```json\n"+string(raw)+"\n```"))
	})

	got, err := s.GenerateContentPlan(context.Background(), &transfer.ContentPlanRequest{
		Days:      2,
		Platforms: []string{"youtube"},
		Topic:     "woodworking",
	})
	require.NoError(t, err)
	assert.Equal(t, &plan, got)
}

func TestGenerateContentPlanFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "provider down",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "oops", http.StatusInternalServerError)
			},
		},
		{
			name: "reply is not JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, geminiReply("Sorry, I can't do that."))
			},
		},
		{
			name: "wrong day count",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, geminiReply(`{"days":[{"day":1,"entries":[{"platform":"youtube"}]}]}`))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newAIServiceForTest(t, tc.handler)

			got, err := s.GenerateContentPlan(context.Background(), &transfer.ContentPlanRequest{
				Days:      3,
				Platforms: []string{"youtube", "threads"},
			})
			require.NoError(t, err)
			require.Len(t, got.Days, 3)
			for i, day := range got.Days {
				assert.Equal(t, i+1, day.Day)
				require.Len(t, day.Entries, 2)
				assert.Equal(t, "youtube", day.Entries[0].Platform)
				assert.Equal(t, "threads", day.Entries[1].Platform)
			}
		})
	}
}

func TestBuildFallbackPlanIsDeterministic(t *testing.T) {
	a := BuildFallbackPlan(10, []string{"youtube"})
	b := BuildFallbackPlan(10, []string{"youtube"})
	assert.Equal(t, a, b)

	require.Len(t, a.Days, 10)
	for _, day := range a.Days {
		for _, entry := range day.Entries {
			assert.NotEmpty(t, entry.Idea)
			assert.NotEmpty(t, entry.Caption)
			assert.NotEmpty(t, entry.BestTime)
		}
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{name: "bare object", text: `{"a":1}`, want: `{"a":1}`},
		{name: "wrapped in prose", text: "Sure!\n{\"a\":1}\nHope that helps.", want: `{"a":1}`},
		{name: "nested braces", text: `prefix {"a":{"b":2}} suffix`, want: `{"a":{"b":2}}`},
		{name: "no object", text: "no json here", wantErr: true},
		{name: "reversed braces", text: "} {", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tc.text)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
