package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
)

func TestMandateRunConfigPathAttribute(t *testing.T) {
	okHandler := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	setUpEcho := func(target string) (echo.Context, *httptest.ResponseRecorder) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		return e.NewContext(req, rec), rec
	}

	t.Run("passes through with a usable path", func(t *testing.T) {
		c, rec := setUpEcho("/runs/submit?path=run_info.yaml")

		err := MandateRunConfigPathAttribute(okHandler)(c)
		assert.Nil(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects a missing path", func(t *testing.T) {
		c, _ := setUpEcho("/runs/submit")

		err := MandateRunConfigPathAttribute(okHandler)(c)
		assert.NotNil(t, err)
		assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
	})

	t.Run("rejects directory escapes", func(t *testing.T) {
		c, _ := setUpEcho("/runs/submit?path=../../etc/passwd")

		err := MandateRunConfigPathAttribute(okHandler)(c)
		assert.NotNil(t, err)
		assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
	})
}
