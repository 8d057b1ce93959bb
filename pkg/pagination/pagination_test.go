package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func extractFromQuery(t *testing.T, query string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Extract(c)
}

func TestExtractDefaults(t *testing.T) {
	params := extractFromQuery(t, "")
	if params.Page != DefaultPage || params.Limit != DefaultLimit || params.Skip != 0 {
		t.Errorf("defaults = %+v, want page=%d limit=%d skip=0", params, DefaultPage, DefaultLimit)
	}
}

func TestExtractValues(t *testing.T) {
	params := extractFromQuery(t, "page=3&limit=25")
	if params.Page != 3 || params.Limit != 25 || params.Skip != 50 {
		t.Errorf("params = %+v, want page=3 limit=25 skip=50", params)
	}
}

func TestExtractClampsAndFallsBack(t *testing.T) {
	params := extractFromQuery(t, "page=-1&limit=9999")
	if params.Page != DefaultPage {
		t.Errorf("negative page not reset: %+v", params)
	}
	if params.Limit != MaxLimit {
		t.Errorf("limit not clamped to %d: %+v", MaxLimit, params)
	}

	params = extractFromQuery(t, "page=abc&limit=xyz")
	if params.Page != DefaultPage || params.Limit != DefaultLimit {
		t.Errorf("garbage input not defaulted: %+v", params)
	}
}

func TestMetadataFrom(t *testing.T) {
	meta := MetadataFrom(45, Params{Page: 2, Limit: 20, Skip: 20})

	if meta.TotalItems != 45 {
		t.Errorf("TotalItems = %d, want 45", meta.TotalItems)
	}
	if meta.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", meta.TotalPages)
	}
	if !meta.HasNextPage || !meta.HasPrevPage {
		t.Errorf("page 2 of 3 should have both neighbors: %+v", meta)
	}

	last := MetadataFrom(45, Params{Page: 3, Limit: 20})
	if last.HasNextPage {
		t.Errorf("last page should not have a next page")
	}

	empty := MetadataFrom(0, Params{Page: 1, Limit: 20})
	if empty.TotalPages != 0 || empty.HasNextPage || empty.HasPrevPage {
		t.Errorf("empty result metadata = %+v", empty)
	}
}
