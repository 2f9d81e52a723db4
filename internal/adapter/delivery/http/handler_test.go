package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/httplog/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/brevly/internal/entity"
	"github.com/vadimbarashkov/brevly/internal/metrics"
)

type HandlersTestSuite struct {
	suite.Suite
	logger            *httplog.Logger
	link              entity.Link
	linkUseCaseMock   *MockLinkUseCase
	exportUseCaseMock *MockExportUseCase
	server            *httptest.Server
	e                 *httpexpect.Expect
}

func (suite *HandlersTestSuite) SetupSuite() {
	suite.logger = httplog.NewLogger("", httplog.Options{Writer: io.Discard})
	suite.link = entity.Link{
		ID:          "0190a6c4-0000-7000-8000-000000000001",
		OriginalURL: "https://example.com",
		ShortURL:    "abc123",
		AccessCount: 3,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 123456789, time.UTC),
	}
}

func (suite *HandlersTestSuite) SetupSubTest() {
	suite.linkUseCaseMock = new(MockLinkUseCase)
	suite.exportUseCaseMock = new(MockExportUseCase)

	router := NewRouter(RouterOptions{
		Logger:         suite.logger,
		Metrics:        metrics.New(),
		LinkUseCase:    suite.linkUseCaseMock,
		ExportUseCase:  suite.exportUseCaseMock,
		AllowedOrigins: []string{"https://*"},
	})
	suite.server = httptest.NewServer(router)
	suite.T().Cleanup(func() {
		suite.server.Close()
	})

	suite.e = httpexpect.Default(suite.T(), suite.server.URL)
}

func (suite *HandlersTestSuite) TearDownSubTest() {
	suite.linkUseCaseMock.AssertExpectations(suite.T())
	suite.exportUseCaseMock.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestHealth() {
	const path = "/api/v1/health"

	suite.Run("success", func() {
		suite.e.GET(path).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			HasValue("status", "ok")
	})
}

func (suite *HandlersTestSuite) TestCreateLink() {
	const path = "/api/v1/links"

	suite.Run("empty request body", func() {
		resp := suite.e.POST(path).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", "empty request body")
	})

	suite.Run("invalid request body", func() {
		resp := suite.e.POST(path).
			WithJSON("invalid body").
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", "invalid request body")
	})

	suite.Run("invalid original url", func() {
		resp := suite.e.POST(path).
			WithJSON(map[string]string{"originalUrl": "invalid url"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.ContainsKey("message")
		resp.Value("errors").Array().Value(0).Object().
			HasValue("field", "originalUrl").
			ContainsKey("message")
	})

	suite.Run("alias with forbidden characters", func() {
		resp := suite.e.POST(path).
			WithJSON(map[string]string{
				"originalUrl":    "https://example.com",
				"customShortUrl": "a b",
			}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.Value("errors").Array().Value(0).Object().
			HasValue("field", "customShortUrl")
	})

	suite.Run("alias too short", func() {
		resp := suite.e.POST(path).
			WithJSON(map[string]string{
				"originalUrl":    "https://example.com",
				"customShortUrl": "ab",
			}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.Value("errors").Array().Value(0).Object().
			HasValue("field", "customShortUrl")
	})

	suite.Run("alias conflict", func() {
		suite.linkUseCaseMock.
			On("CreateLink", mock.Anything, "https://example.com", "abc123").
			Once().
			Return(nil, entity.ErrAliasConflict)

		resp := suite.e.POST(path).
			WithJSON(map[string]string{
				"originalUrl":    "https://example.com",
				"customShortUrl": "abc123",
			}).
			Expect().
			Status(http.StatusConflict).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", "short url already exists")
	})

	suite.Run("server error", func() {
		suite.linkUseCaseMock.
			On("CreateLink", mock.Anything, "https://example.com", "abc123").
			Once().
			Return(nil, errors.New("unknown error"))

		resp := suite.e.POST(path).
			WithJSON(map[string]string{
				"originalUrl":    "https://example.com",
				"customShortUrl": "abc123",
			}).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.ContainsKey("message")
	})

	suite.Run("generated alias", func() {
		suite.linkUseCaseMock.
			On("CreateLink", mock.Anything, "https://example.com", "").
			Once().
			Return(&suite.link, nil)

		suite.e.POST(path).
			WithJSON(map[string]string{"originalUrl": "https://example.com"}).
			Expect().
			Status(http.StatusCreated).
			JSON().Object().
			HasValue("shortUrl", "abc123")
	})

	suite.Run("success", func() {
		suite.linkUseCaseMock.
			On("CreateLink", mock.Anything, "https://example.com", "abc123").
			Once().
			Return(&suite.link, nil)

		resp := suite.e.POST(path).
			WithJSON(map[string]string{
				"originalUrl":    "https://example.com",
				"customShortUrl": "abc123",
			}).
			Expect().
			Status(http.StatusCreated).
			JSON().Object()

		resp.HasValue("id", suite.link.ID)
		resp.HasValue("originalUrl", "https://example.com")
		resp.HasValue("shortUrl", "abc123")
		resp.HasValue("accessCount", 3)
		resp.HasValue("createdAt", "2024-01-01T00:00:00.123Z")
	})
}

func (suite *HandlersTestSuite) TestListLinks() {
	const path = "/api/v1/links"

	suite.Run("server error", func() {
		suite.linkUseCaseMock.
			On("ListLinks", mock.Anything).
			Once().
			Return(nil, errors.New("unknown error"))

		suite.e.GET(path).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object().
			HasValue("status", "error")
	})

	suite.Run("no links", func() {
		suite.linkUseCaseMock.
			On("ListLinks", mock.Anything).
			Once().
			Return(nil, nil)

		suite.e.GET(path).
			Expect().
			Status(http.StatusOK).
			JSON().Array().
			IsEmpty()
	})

	suite.Run("success", func() {
		suite.linkUseCaseMock.
			On("ListLinks", mock.Anything).
			Once().
			Return([]entity.Link{suite.link}, nil)

		arr := suite.e.GET(path).
			Expect().
			Status(http.StatusOK).
			JSON().Array()

		arr.Length().IsEqual(1)
		arr.Value(0).Object().
			HasValue("shortUrl", "abc123").
			HasValue("accessCount", 3)
	})
}

func (suite *HandlersTestSuite) TestGetLinksByAlias() {
	const path = "/api/v1/links/%s"

	suite.Run("server error", func() {
		suite.linkUseCaseMock.
			On("GetLinksByAlias", mock.Anything, "abc123").
			Once().
			Return(nil, errors.New("unknown error"))

		suite.e.GET(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusInternalServerError)
	})

	suite.Run("no match", func() {
		suite.linkUseCaseMock.
			On("GetLinksByAlias", mock.Anything, "missing").
			Once().
			Return([]entity.Link{}, nil)

		suite.e.GET(fmt.Sprintf(path, "missing")).
			Expect().
			Status(http.StatusOK).
			JSON().Array().
			IsEmpty()
	})

	suite.Run("success", func() {
		suite.linkUseCaseMock.
			On("GetLinksByAlias", mock.Anything, "abc123").
			Once().
			Return([]entity.Link{suite.link}, nil)

		arr := suite.e.GET(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusOK).
			JSON().Array()

		arr.Length().IsEqual(1)
		arr.Value(0).Object().HasValue("originalUrl", "https://example.com")
	})
}

func (suite *HandlersTestSuite) TestResolveLink() {
	const path = "/api/v1/links/%s/redirect"

	suite.Run("link not found", func() {
		suite.linkUseCaseMock.
			On("ResolveLink", mock.Anything, "missing").
			Once().
			Return("", entity.ErrLinkNotFound)

		resp := suite.e.GET(fmt.Sprintf(path, "missing")).
			Expect().
			Status(http.StatusNotFound).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", "link not found")
	})

	suite.Run("server error", func() {
		suite.linkUseCaseMock.
			On("ResolveLink", mock.Anything, "abc123").
			Once().
			Return("", errors.New("unknown error"))

		suite.e.GET(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusInternalServerError)
	})

	suite.Run("success", func() {
		suite.linkUseCaseMock.
			On("ResolveLink", mock.Anything, "abc123").
			Once().
			Return("https://example.com", nil)

		suite.e.GET(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			IsEqual(map[string]any{"originalUrl": "https://example.com"})
	})
}

func (suite *HandlersTestSuite) TestVisitLink() {
	const path = "/%s"

	suite.Run("link not found", func() {
		suite.linkUseCaseMock.
			On("ResolveLink", mock.Anything, "missing").
			Once().
			Return("", entity.ErrLinkNotFound)

		resp := suite.e.GET(fmt.Sprintf(path, "missing")).
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusNotFound).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", "link not found")
	})

	suite.Run("server error", func() {
		suite.linkUseCaseMock.
			On("ResolveLink", mock.Anything, "abc123").
			Once().
			Return("", errors.New("unknown error"))

		suite.e.GET(fmt.Sprintf(path, "abc123")).
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusInternalServerError)
	})

	suite.Run("success", func() {
		suite.linkUseCaseMock.
			On("ResolveLink", mock.Anything, "abc123").
			Once().
			Return("https://example.com/some/page", nil)

		suite.e.GET(fmt.Sprintf(path, "abc123")).
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusFound).
			Header("Location").IsEqual("https://example.com/some/page")
	})
}

func (suite *HandlersTestSuite) TestDeleteLink() {
	const path = "/api/v1/links/%s"

	suite.Run("server error", func() {
		suite.linkUseCaseMock.
			On("DeleteLink", mock.Anything, suite.link.ID).
			Once().
			Return(errors.New("unknown error"))

		suite.e.DELETE(fmt.Sprintf(path, suite.link.ID)).
			Expect().
			Status(http.StatusInternalServerError)
	})

	suite.Run("success", func() {
		suite.linkUseCaseMock.
			On("DeleteLink", mock.Anything, suite.link.ID).
			Once().
			Return(nil)

		suite.e.DELETE(fmt.Sprintf(path, suite.link.ID)).
			Expect().
			Status(http.StatusNoContent).
			NoContent()
	})
}

func (suite *HandlersTestSuite) TestExportLinks() {
	const path = "/api/v1/links/export"

	suite.Run("upload error", func() {
		suite.exportUseCaseMock.
			On("ExportLinks", mock.Anything).
			Once().
			Return(nil, errors.New("S3 upload failed"))

		suite.e.GET(path).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object().
			HasValue("status", "error")
	})

	suite.Run("success", func() {
		const fileName = "links-export-2024-03-15T10-20-30-456Z-1a2b3c4d.csv"

		suite.exportUseCaseMock.
			On("ExportLinks", mock.Anything).
			Once().
			Return(&entity.Export{
				FileName:  fileName,
				PublicURL: "https://pub.example.com/" + fileName,
			}, nil)

		resp := suite.e.GET(path).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		resp.HasValue("fileName", fileName)
		resp.HasValue("publicUrl", "https://pub.example.com/"+fileName)
	})
}

func (suite *HandlersTestSuite) TestAuxiliaryRoutes() {
	suite.Run("metrics", func() {
		suite.e.GET("/api/v1/health").
			Expect().
			Status(http.StatusOK)

		suite.e.GET("/metrics").
			Expect().
			Status(http.StatusOK).
			Body().
			Contains(`brevly_http_requests_total{method="GET",route="/api/v1/health",status="200"} 1`)
	})

	suite.Run("swagger spec", func() {
		suite.e.GET("/docs/swagger.yml").
			Expect().
			Status(http.StatusOK).
			Body().
			Contains("openapi:")
	})

	suite.Run("client page", func() {
		suite.e.GET("/").
			Expect().
			Status(http.StatusOK).
			Body().
			Contains("<title>brev.ly</title>")
	})
}

func TestLinkHandler(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
