// Package tokendesk implements the tokendesk server: an HTTP API for
// tracking shipment/service token records with role-based user accounts.
package tokendesk

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/tokendesk/tokendesk/api"
	"github.com/tokendesk/tokendesk/storage/model"
)

// FiberServerConfig is the fiber.Config that is used to init the http fiber.App
var FiberServerConfig = fiber.Config{
	ReadTimeout:    3 * time.Second,
	WriteTimeout:   20 * time.Second,
	IdleTimeout:    150 * time.Second,
	ReadBufferSize: 8192,
	ErrorHandler:   handleError,
	Network:        "tcp",
}

// TokenDesk bundles the http server with its storage backends.
type TokenDesk struct {
	server     *fiber.App
	serverConf ServerConf
	storages   model.Backends
}

// handleError is the central fiber error handler. Anything that is not an
// explicit fiber error is treated as an internal failure: logged with detail,
// surfaced without it.
func handleError(ctx *fiber.Ctx, err error) error {
	var e *fiber.Error
	if errors.As(err, &e) && e.Code != fiber.StatusInternalServerError {
		return ctx.Status(e.Code).JSON(fiber.Map{"error": e.Message})
	}
	log.WithError(err).Error("unhandled error")
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// NewTokenDesk creates a new TokenDesk serving the API backed by the passed
// storages.
func NewTokenDesk(serverConf ServerConf, storages model.Backends) *TokenDesk {
	if tps := serverConf.TrustedProxies; len(tps) > 0 {
		FiberServerConfig.TrustedProxies = serverConf.TrustedProxies
		FiberServerConfig.EnableTrustedProxyCheck = true
	}
	FiberServerConfig.ProxyHeader = serverConf.ForwardedIPHeader
	server := fiber.New(FiberServerConfig)
	server.Use(recover.New())
	server.Use(compress.New())
	server.Use(logger.New())
	server.Use(requestid.New())

	server.Get(
		"/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "healthy"})
		},
	)
	api.Register(server.Group("/api"), storages)

	return &TokenDesk{
		server:     server,
		serverConf: serverConf,
		storages:   storages,
	}
}

// HttpHandlerFunc returns an http.HandlerFunc for serving all the necessary endpoints
func (t TokenDesk) HttpHandlerFunc() http.HandlerFunc {
	return adaptor.FiberApp(t.server)
}

// Listen starts an http server at the specific address for serving all the
// necessary endpoints
func (t TokenDesk) Listen(addr string) error {
	return t.server.Listen(addr)
}

// Start runs the server according to its ServerConf, optionally with TLS and
// an http-to-https redirect server.
func (t TokenDesk) Start() {
	conf := t.serverConf
	if !conf.TLS.Enabled {
		log.WithField("port", conf.Port).Info("TLS is disabled starting http server")
		log.WithError(t.server.Listen(fmt.Sprintf(":%d", conf.Port))).Fatal()
	}
	// TLS enabled
	if conf.TLS.RedirectHTTP {
		httpServer := fiber.New(FiberServerConfig)
		httpServer.All(
			"*", func(ctx *fiber.Ctx) error {
				//goland:noinspection HttpUrlsUsage
				return ctx.Redirect(
					strings.Replace(ctx.Request().URI().String(), "http://", "https://", 1),
					fiber.StatusPermanentRedirect,
				)
			},
		)
		log.Info("TLS and http redirect enabled, starting redirect server on port 80")
		go func() {
			log.WithError(httpServer.Listen(":80")).Fatal()
		}()
	}
	log.Info("TLS enabled, starting https server on port 443")
	log.WithError(t.server.ListenTLS(":443", conf.TLS.Cert, conf.TLS.Key)).Fatal()
}
