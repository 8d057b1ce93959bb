package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest("GET", "/", nil)
	handler(c)
	return recorder
}

func TestSuccessEnvelope(t *testing.T) {
	recorder := performRequest(func(c *gin.Context) {
		Success(c, http.StatusOK, map[string]string{"id": "42"}, "loaded", nil)
	})

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if body["message"] != "loaded" {
		t.Errorf("message = %v, want loaded", body["message"])
	}
	data, ok := body["data"].(map[string]interface{})
	if !ok || data["id"] != "42" {
		t.Errorf("data = %v", body["data"])
	}
	if _, present := body["error"]; present {
		t.Errorf("error field should be omitted on success")
	}
}

func TestCreated(t *testing.T) {
	recorder := performRequest(func(c *gin.Context) {
		Created(c, "thing", "")
	})

	if recorder.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", recorder.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := body["message"]; present {
		t.Errorf("empty message should be omitted")
	}
}

func TestErrorEnvelope(t *testing.T) {
	recorder := performRequest(func(c *gin.Context) {
		Error(c, http.StatusNotFound, "Course not found.", nil)
	})

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if body["message"] != "Course not found." {
		t.Errorf("message = %v", body["message"])
	}
}
