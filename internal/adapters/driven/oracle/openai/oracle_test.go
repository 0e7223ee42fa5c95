package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
)

func completionResponse(content string) string {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func testFields() []domain.FieldDescriptor {
	return []domain.FieldDescriptor{
		{ID: "title", Name: "Title", Kind: domain.KindShortText},
		{ID: "views", Name: "Views", Kind: domain.KindInteger},
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	o, err := New(Config{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, o.ModelName())
}

func TestSuggestMappings(t *testing.T) {
	var gotAuth string
	var gotReq chatCompletionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)

		body := `[{"sourceField": "Post Title", "targetField": "title", "confidence": 0.95}]`
		w.Write([]byte(completionResponse(body)))
	}))
	defer srv.Close()

	o, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL, Model: "test-model"})
	require.NoError(t, err)

	mappings, err := o.SuggestMappings(context.Background(), []string{"Post Title"}, testFields())
	require.NoError(t, err)

	require.Len(t, mappings, 1)
	assert.Equal(t, "Post Title", mappings[0].SourceField)
	assert.Equal(t, "title", mappings[0].TargetField)
	assert.Equal(t, 0.95, mappings[0].Confidence)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Contains(t, gotReq.Messages[0].Content, "Post Title")
	assert.Contains(t, gotReq.Messages[0].Content, "title")
}

func TestSuggestMappings_StripsCodeFences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := "Here you go:\n```json\n[{\"sourceField\": \"A\", \"targetField\": \"title\", \"confidence\": 0.8}]\n```"
		w.Write([]byte(completionResponse(body)))
	}))
	defer srv.Close()

	o, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	mappings, err := o.SuggestMappings(context.Background(), []string{"A"}, testFields())
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "title", mappings[0].TargetField)
}

func TestSuggestMappings_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid api key", "type": "auth"}}`))
	}))
	defer srv.Close()

	o, err := New(Config{APIKey: "sk-bad", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = o.SuggestMappings(context.Background(), []string{"A"}, testFields())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestSuggestMappings_NonJSONAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionResponse("I cannot help with that.")))
	}))
	defer srv.Close()

	o, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = o.SuggestMappings(context.Background(), []string{"A"}, testFields())
	assert.Error(t, err)
}

func TestExtractJSONArray(t *testing.T) {
	assert.Equal(t, `[1,2]`, extractJSONArray("```json\n[1,2]\n```"))
	assert.Equal(t, `[]`, extractJSONArray("prefix [] suffix"))
	assert.Equal(t, "no array here", extractJSONArray("no array here"))
}
