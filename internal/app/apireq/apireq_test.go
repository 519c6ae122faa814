package apireq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestFlexIntDecodes(t *testing.T) {
	var body struct {
		A *FlexInt `json:"a"`
		B *FlexInt `json:"b"`
		C *FlexInt `json:"c"`
		D *FlexInt `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"a":3,"b":"4","c":null}`), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.A == nil || int64(*body.A) != 3 {
		t.Fatalf("expected a=3, got %v", body.A)
	}
	if body.B == nil || int64(*body.B) != 4 {
		t.Fatalf("expected b=4, got %v", body.B)
	}
	if body.C != nil || body.D != nil {
		t.Fatalf("expected null and missing to stay unset")
	}
	if body.C.Int64Ptr() != nil || body.D.IntPtr() != nil {
		t.Fatalf("nil FlexInt must convert to nil pointers")
	}
	if *body.B.IntPtr() != 4 {
		t.Fatalf("expected IntPtr 4")
	}
}

func TestFlexIntRejectsNonInteger(t *testing.T) {
	for _, raw := range []string{`{"a":"abc"}`, `{"a":1.5}`, `{"a":true}`} {
		var body struct {
			A *FlexInt `json:"a"`
		}
		if err := json.Unmarshal([]byte(raw), &body); err == nil {
			t.Fatalf("%s: expected error", raw)
		}
	}
}

func TestPage(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{query: "", want: 1},
		{query: "?page=3", want: 3},
		{query: "?page=0", wantErr: true},
		{query: "?page=-2", wantErr: true},
		{query: "?page=two", wantErr: true},
	}

	for _, tc := range tests {
		got, err := Page(httptest.NewRequest(http.MethodGet, "/questions"+tc.query, nil))
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidPage) {
				t.Fatalf("%q: expected ErrInvalidPage, got %v", tc.query, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%q: expected %d, got %d err=%v", tc.query, tc.want, got, err)
		}
	}
}

func TestIDParam(t *testing.T) {
	param := func(v string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", v)
		r := httptest.NewRequest(http.MethodGet, "/questions/"+v, nil)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	if id, err := IDParam(param("12"), "id"); err != nil || id != 12 {
		t.Fatalf("expected 12, got %d err=%v", id, err)
	}
	for _, v := range []string{"0", "-1", "x"} {
		if _, err := IDParam(param(v), "id"); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("%q: expected ErrInvalidID, got %v", v, err)
		}
	}
}
