package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apierrors "kodbank/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

// ErrorHandlerTestSuite defines the test suite for error handler middleware
type ErrorHandlerTestSuite struct {
	suite.Suite
	echo     *echo.Echo
	registry *prometheus.Registry
	handler  echo.HTTPErrorHandler
}

func (s *ErrorHandlerTestSuite) SetupTest() {
	s.registry = prometheus.NewRegistry()
	s.handler = NewHTTPErrorHandler(s.registry)
	s.echo = echo.New()
	s.echo.HTTPErrorHandler = s.handler
}

func TestErrorHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ErrorHandlerTestSuite))
}

func (s *ErrorHandlerTestSuite) handle(err error) (*httptest.ResponseRecorder, apierrors.ErrorResponse) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	c.Set(TraceIDContextKey, "test-trace-id")

	s.handler(err, c)

	var resp apierrors.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func (s *ErrorHandlerTestSuite) TestRouteNotFound() {
	rec, resp := s.handle(echo.ErrNotFound)

	s.Equal(http.StatusNotFound, rec.Code)
	s.False(resp.Success)
	s.Equal(string(apierrors.SystemRouteNotFound), resp.Code)
	s.Equal("Route not found", resp.Message)
	s.Equal("test-trace-id", resp.TraceID)
}

func (s *ErrorHandlerTestSuite) TestMethodNotAllowed() {
	rec, resp := s.handle(echo.ErrMethodNotAllowed)

	s.Equal(http.StatusMethodNotAllowed, rec.Code)
	s.Equal(string(apierrors.SystemMethodNotAllowed), resp.Code)
}

func (s *ErrorHandlerTestSuite) TestEchoErrorKeepsStatusAndMessage() {
	rec, resp := s.handle(echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Request Entity Too Large"))

	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	s.Equal("Request Entity Too Large", resp.Message)
}

func (s *ErrorHandlerTestSuite) TestGenericErrorPassesMessageThrough() {
	rec, resp := s.handle(errors.New("database is locked"))

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal(string(apierrors.SystemInternalError), resp.Code)
	s.Equal("database is locked", resp.Message)
}

func (s *ErrorHandlerTestSuite) TestCommittedResponseIsLeftAlone() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})

	s.handler(errors.New("late"), c)

	s.Equal(http.StatusOK, rec.Code)
	s.NotContains(rec.Body.String(), "late")
}

func (s *ErrorHandlerTestSuite) TestErrorsAreCounted() {
	s.handle(echo.ErrNotFound)
	s.handle(echo.ErrNotFound)

	count, err := testutil.GatherAndCount(s.registry, "api_errors_total")
	s.Require().NoError(err)
	s.Equal(1, count)
}
