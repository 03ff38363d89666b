package module_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foliolabs/folio/pkg/module"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})
}

func TestNew_InvalidPrefixPanics(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"empty", ""},
		{"no leading slash", "api"},
		{"multi segment", "/api/v1"},
		{"bare slash", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%q) did not panic", tt.prefix)
				}
			}()
			module.New(tt.prefix, okHandler("x"))
		})
	}
}

func TestModule_Mount_StripsPrefix(t *testing.T) {
	m := module.New("/api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Path))
	}))

	mux := http.NewServeMux()
	m.Mount(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	body, _ := io.ReadAll(w.Result().Body)
	if string(body) != "/documents" {
		t.Errorf("handler saw path %q, want %q", body, "/documents")
	}
}

func TestModule_Use_AppliesInRegistrationOrder(t *testing.T) {
	m := module.New("/api", okHandler("core"))

	wrap := func(tag string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tag + ":"))
				next.ServeHTTP(w, r)
			})
		}
	}

	m.Use(wrap("outer"))
	m.Use(wrap("inner"))

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	body, _ := io.ReadAll(w.Result().Body)
	if string(body) != "outer:inner:core" {
		t.Errorf("middleware order = %q, want %q", body, "outer:inner:core")
	}
}
