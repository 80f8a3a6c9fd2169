package serviceInfo

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"varpipe/api/contexts"
	"varpipe/api/models"
	serviceInfo "varpipe/api/models/constants/service-info"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
)

func TestGetServiceInfo(t *testing.T) {
	cfg := &models.Config{}

	setUpEcho := func(method string, path string) (*contexts.VarpipeContext, *httptest.ResponseRecorder) {
		e := echo.New()
		req := httptest.NewRequest(method, path, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		vc := &contexts.VarpipeContext{
			Context:    c,
			Es7Client:  nil, // todo mockup
			Config:     cfg,
			RunService: nil,
		}
		return vc, rec
	}

	getJsonBody := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		// - extract body bytes from response
		body, _ := io.ReadAll(rec.Body)
		// - unmarshal or decode the JSON to a declared empty interface.
		var bodyJson map[string]interface{}
		json.Unmarshal(body, &bodyJson)

		return bodyJson
	}

	t.Run("should return 200 status ok and the service descriptor", func(t *testing.T) {
		//set up
		vc, rec := setUpEcho(http.MethodGet, "/service-info")

		// perform
		GetServiceInfo(vc)

		// verify response status
		assert.Equal(t, http.StatusOK, rec.Code)

		// verify body
		json := getJsonBody(rec)

		assert.Equal(t, json["id"].(string), string(serviceInfo.SERVICE_ID))
		assert.Equal(t, json["name"].(string), string(serviceInfo.SERVICE_NAME))
		assert.Equal(t, json["description"].(string), string(serviceInfo.SERVICE_DESCRIPTION))
		assert.Equal(t, json["version"].(string), string(serviceInfo.SERVICE_VERSION))
	})
}
