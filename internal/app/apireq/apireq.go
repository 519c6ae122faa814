package apireq

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

var (
	ErrInvalidPage = errors.New("page must be a positive integer")
	ErrInvalidID   = errors.New("id must be a positive integer")
)

// FlexInt decodes either a JSON number or a numeric string. Clients send
// category and difficulty in both forms.
type FlexInt int64

func (v *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer value %s", b)
	}
	*v = FlexInt(n)
	return nil
}

func (v *FlexInt) Int64Ptr() *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}

func (v *FlexInt) IntPtr() *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

// Page reads the "page" query parameter, defaulting to 1 when it is absent.
func Page(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("page"))
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, ErrInvalidPage
	}
	return n, nil
}

func IDParam(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
