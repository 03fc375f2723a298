package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/submission"
)

type captured struct {
	headers   http.Header
	query     string
	variables map[string]any
}

func graphqlServer(t *testing.T, reply string, seen *captured) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if seen != nil {
			seen.headers = r.Header.Clone()
			seen.query = body.Query
			seen.variables = body.Variables
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply)
	}))
}

func fixedIDs() Option {
	return WithRequestIDs(func() string { return "req-1" })
}

func TestFetchForm(t *testing.T) {
	t.Parallel()

	reply := `{"data": {"getFormWithAnswers": {
		"id": "form-1",
		"name": "Visit",
		"questions": [
			{"id": "q2", "type": "text", "position": 2, "label": {"en": "Second", "ar": null}},
			{"id": "q1", "type": "select", "position": 1, "options": [
				{"id": "o2", "key": "no", "position": 2},
				{"id": "o1", "key": "yes", "position": 1}
			]}
		]
	}}}`
	seen := &captured{}
	srv := graphqlServer(t, reply, seen)
	defer srv.Close()

	client := NewClient(srv.URL, WithToken("secret"), fixedIDs())
	form, err := client.FetchForm(context.Background(), FormRequest{FormID: "form-1", EntityID: "e-1"})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if form.ID != "form-1" || form.Questions[0].ID != "q1" || form.Questions[0].Options[0].Key != "yes" {
		t.Fatalf("form not normalised: %+v", form)
	}
	if got := seen.headers.Get("Authorization"); got != "Bearer secret" {
		t.Fatalf("authorization header = %q", got)
	}
	if got := seen.headers.Get("X-Auth-Token"); got != "secret" {
		t.Fatalf("auth token header = %q", got)
	}
	if got := seen.headers.Get("X-Request-ID"); got != "req-1" {
		t.Fatalf("request id header = %q", got)
	}
	want := map[string]any{"form_id": "form-1", "entity_id": "e-1", "preview": false}
	if diff := cmp.Diff(want, seen.variables); diff != "" {
		t.Fatalf("variables mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(seen.query, "getFormWithAnswers") {
		t.Fatalf("unexpected query %q", seen.query)
	}
}

func TestFetchForm_Errors(t *testing.T) {
	t.Parallel()

	srv := graphqlServer(t, `{"errors": [{"message": "form not found"}, {"message": "try again"}]}`, nil)
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchForm(context.Background(), FormRequest{FormID: "x"})
	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected ResponseError, got %v", err)
	}
	if diff := cmp.Diff([]string{"form not found", "try again"}, respErr.Messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}

	null := graphqlServer(t, `{"data": {"getFormWithAnswers": null}}`, nil)
	defer null.Close()
	if _, err := NewClient(null.URL).FetchForm(context.Background(), FormRequest{FormID: "x"}); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}

	if _, err := NewClient(null.URL).FetchForm(context.Background(), FormRequest{}); err == nil {
		t.Fatalf("expected error for missing form id")
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer down.Close()
	_, err = NewClient(down.URL).FetchForm(context.Background(), FormRequest{FormID: "x"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode() != http.StatusBadGateway {
		t.Fatalf("expected StatusError 502, got %v", err)
	}
}

func TestSubmitBatch(t *testing.T) {
	t.Parallel()

	seen := &captured{}
	srv := graphqlServer(t, `{"data": {"addUpdateBulkFormAnswers": {"success": true, "submission_id": "sub-9", "answers_count": 1}}}`, seen)
	defer srv.Close()

	batch := submission.Batch{
		FormID:  "form-1",
		Answers: []submission.AnswerInput{{QuestionID: "q1", ValueType: submission.ValueTypeText, ValueText: "hi"}},
	}

	if _, err := NewClient(srv.URL).SubmitBatch(context.Background(), batch); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}

	result, err := NewClient(srv.URL, WithToken("t")).SubmitBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(submission.Result{Success: true, SubmissionID: "sub-9", AnswersCount: 1}, result); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}

	input, _ := seen.variables["input"].(map[string]any)
	if input["form_id"] != "form-1" || input["entity_id"] != nil {
		t.Fatalf("unexpected input variables: %#v", input)
	}
}

func TestSubmitBatch_Rejected(t *testing.T) {
	t.Parallel()

	srv := graphqlServer(t, `{"data": {"addUpdateBulkFormAnswers": {"success": false, "message": "form closed"}}}`, nil)
	defer srv.Close()

	result, err := NewClient(srv.URL, WithToken("t")).SubmitBatch(context.Background(), submission.Batch{FormID: "f"})
	if !errors.Is(err, ErrRejected) || !strings.Contains(err.Error(), "form closed") {
		t.Fatalf("expected ErrRejected with message, got %v", err)
	}
	if result.Message != "form closed" {
		t.Fatalf("rejected result should be returned, got %+v", result)
	}
}

func TestUploadFile(t *testing.T) {
	t.Parallel()

	var (
		operations string
		mapping    string
		fileName   string
		content    string
		lang       string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		operations = r.FormValue("operations")
		mapping = r.FormValue("map")
		lang = r.Header.Get("LANG")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		fileName = header.Filename
		content = string(data)
		_, _ = io.WriteString(w, `{"data": {"uploadFile": "https://cdn.example.com/cv.pdf"}}`)
	}))
	defer srv.Close()

	client := NewClient("http://unused.invalid/graphql", WithToken("t"), WithUploadEndpoint(srv.URL), WithLocale("ar"))
	url, err := client.UploadFile(context.Background(), answers.Upload{Name: "cv.pdf", Data: []byte("%PDF-1.4")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "https://cdn.example.com/cv.pdf" {
		t.Fatalf("url = %q", url)
	}
	if !strings.Contains(operations, "uploadFile") || mapping != `{"file":["variables.input.file"]}` {
		t.Fatalf("unexpected multipart fields: %q %q", operations, mapping)
	}
	if fileName != "cv.pdf" || content != "%PDF-1.4" || lang != "ar" {
		t.Fatalf("unexpected upload: name=%q content=%q lang=%q", fileName, content, lang)
	}

	if _, err := NewClient(srv.URL).UploadFile(context.Background(), answers.Upload{Name: "x"}); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}
