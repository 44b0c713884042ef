package remote

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/menta2k/skin-analyzer/pkg/client"
	"github.com/menta2k/skin-analyzer/pkg/types"
)

func testFile() *types.ImageFile {
	return &types.ImageFile{
		Name:        "lesion.png",
		ContentType: "image/png",
		Data:        []byte("\x89PNG\r\n\x1a\nfake"),
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL + "/predict")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient("")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if c.Endpoint() != DefaultEndpoint {
		t.Errorf("Expected endpoint %s, got %s", DefaultEndpoint, c.Endpoint())
	}
	if c.httpClient.Timeout != 0 {
		t.Errorf("Expected no timeout by default, got %v", c.httpClient.Timeout)
	}
}

func TestNewClientRejectsScheme(t *testing.T) {
	if _, err := NewClient("ftp://example.com/predict"); err == nil {
		t.Error("Expected error for ftp endpoint")
	}
}

func TestWithTimeout(t *testing.T) {
	c, err := NewClient("", WithTimeout(3*time.Second))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if c.httpClient.Timeout != 3*time.Second {
		t.Errorf("Expected timeout 3s, got %v", c.httpClient.Timeout)
	}
}

func TestPredictSendsMultipartImage(t *testing.T) {
	var gotMethod, gotPath, gotName, gotType string
	var gotData []byte

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm failed: %v", err)
		}
		f, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("Expected form file 'image': %v", err)
			return
		}
		defer f.Close()
		gotName = header.Filename
		gotType = header.Header.Get("Content-Type")
		gotData, _ = io.ReadAll(f)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"disease":"melanoma","confidence":0.91,"status":200,"filename":"lesion.png"}`)
	})

	result, err := c.Predict(context.Background(), testFile())
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("Expected POST, got %s", gotMethod)
	}
	if gotPath != "/predict" {
		t.Errorf("Expected path /predict, got %s", gotPath)
	}
	if gotName != "lesion.png" {
		t.Errorf("Expected filename lesion.png, got %s", gotName)
	}
	if gotType != "image/png" {
		t.Errorf("Expected content type image/png, got %s", gotType)
	}
	if string(gotData) != string(testFile().Data) {
		t.Error("Uploaded bytes do not match the selected file")
	}

	if result.Disease != "melanoma" {
		t.Errorf("Expected disease melanoma, got %s", result.Disease)
	}
	if result.Confidence != 0.91 {
		t.Errorf("Expected confidence 0.91, got %f", result.Confidence)
	}
	if result.Filename != "lesion.png" {
		t.Errorf("Expected filename lesion.png, got %s", result.Filename)
	}
}

func TestPredictLowConfidenceWarning(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"disease":"nevus","confidence":0.55,"warning":"Low confidence prediction"}`)
	})

	result, err := c.Predict(context.Background(), testFile())
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if result.Warning != types.LowConfidenceWarning {
		t.Errorf("Expected warning %q, got %q", types.LowConfidenceWarning, result.Warning)
	}
}

func TestPredictStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"Prediction failed: boom","status":500}`)
	})

	_, err := c.Predict(context.Background(), testFile())
	if err == nil {
		t.Fatal("Expected error for status 500")
	}

	var statusErr *client.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected StatusError, got %T: %v", err, err)
	}
	if statusErr.Code != 500 {
		t.Errorf("Expected code 500, got %d", statusErr.Code)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("Expected message to contain 500, got %q", err.Error())
	}
}

func TestPredictApplicationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"model unavailable"}`)
	})

	_, err := c.Predict(context.Background(), testFile())
	var appErr *client.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected AppError, got %T: %v", err, err)
	}
	if err.Error() != "model unavailable" {
		t.Errorf("Expected 'model unavailable', got %q", err.Error())
	}
}

func TestPredictApplicationErrorObject(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":{"message":"model unavailable","code":503}}`)
	})

	_, err := c.Predict(context.Background(), testFile())
	var appErr *client.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected AppError, got %T: %v", err, err)
	}
	if err.Error() != "model unavailable" {
		t.Errorf("Expected 'model unavailable', got %q", err.Error())
	}
}

func TestPredictEmptyErrorField(t *testing.T) {
	for _, body := range []string{
		`{"disease":"nevus","confidence":0.8,"error":null}`,
		`{"disease":"nevus","confidence":0.8,"error":""}`,
	} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, body)
		})

		result, err := c.Predict(context.Background(), testFile())
		if err != nil {
			t.Errorf("Predict(%s) failed: %v", body, err)
			continue
		}
		if result.Disease != "nevus" {
			t.Errorf("Expected disease nevus for %s, got %q", body, result.Disease)
		}
	}
}

func TestPredictNullBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `null`)
	})

	result, err := c.Predict(context.Background(), testFile())
	if err == nil {
		t.Fatalf("Expected error for null body, got %+v", result)
	}
	if client.Kind(err) != client.KindTransport {
		t.Errorf("Expected transport kind, got %s", client.Kind(err))
	}
}

func TestPredictInvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>not json</html>`)
	})

	_, err := c.Predict(context.Background(), testFile())
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	if client.Kind(err) != client.KindTransport {
		t.Errorf("Expected transport kind, got %s", client.Kind(err))
	}
}

func TestPredictNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/predict"
	srv.Close()

	c, err := NewClient(url)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if _, err := c.Predict(context.Background(), testFile()); err == nil {
		t.Error("Expected error when the endpoint is unreachable")
	}
}

func TestPredictNilFile(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.Predict(context.Background(), nil)
	if !errors.Is(err, client.ErrNoFile) {
		t.Errorf("Expected ErrNoFile, got %v", err)
	}
	if called {
		t.Error("Endpoint should not be called without a file")
	}
}

func TestEncodeFormDefaults(t *testing.T) {
	body, contentType, err := encodeForm(&types.ImageFile{Data: []byte("x")})
	if err != nil {
		t.Fatalf("encodeForm failed: %v", err)
	}
	if !strings.HasPrefix(contentType, "multipart/form-data; boundary=") {
		t.Errorf("Unexpected content type %s", contentType)
	}

	raw, _ := io.ReadAll(body)
	if !strings.Contains(string(raw), `name="image"; filename="upload"`) {
		t.Errorf("Expected default filename in body, got %s", raw)
	}
	if !strings.Contains(string(raw), "application/octet-stream") {
		t.Error("Expected octet-stream content type for unknown files")
	}
}
