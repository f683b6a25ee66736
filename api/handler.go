package api

import (
	"bytes"
	"context"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speakeralign/alignment"
	"github.com/kbukum/speakeralign/attribution"
	"github.com/kbukum/speakeralign/errors"
	"github.com/kbukum/speakeralign/output"
	"github.com/kbukum/speakeralign/server"
)

// HeaderJobID carries the job ID when a job result is rendered as a bare
// transcript.
const HeaderJobID = "X-Job-Id"

// Attributor is the part of attribution.Service the handlers need.
type Attributor interface {
	Attribute(ctx context.Context, in alignment.Input) (*alignment.Transcript, error)
	Process(ctx context.Context, job attribution.Job) (*attribution.Result, error)
}

// Handler serves the attribution endpoints.
type Handler struct {
	svc Attributor
}

// NewHandler returns a Handler backed by svc.
func NewHandler(svc Attributor) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the routes under /v1.
func (h *Handler) Register(r gin.IRouter) {
	v1 := r.Group("/v1")
	v1.POST("/attributions", h.Attribute)
	v1.POST("/jobs", h.Process)
}

// Attribute aligns the segments in the request body.
func (h *Handler) Attribute(c *gin.Context) {
	format, err := negotiate(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	in, err := alignment.DecodeInput(c.Request.Body)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	t, err := h.svc.Attribute(c.Request.Context(), in)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	render(c, format, t)
}

// Process runs a recognition job. JSON responses carry the whole result;
// other formats render only the transcript.
func (h *Handler) Process(c *gin.Context) {
	format, err := negotiate(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	var job attribution.Job
	if err := c.ShouldBindJSON(&job); err != nil {
		server.RespondWithError(c, errors.InvalidInput("body", err.Error()))
		return
	}

	res, err := h.svc.Process(c.Request.Context(), job)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	if format == output.FormatJSON {
		c.JSON(http.StatusOK, res)
		return
	}
	c.Header(HeaderJobID, res.JobID)
	render(c, format, res.Transcript)
}

func render(c *gin.Context, format output.Format, t *alignment.Transcript) {
	var buf bytes.Buffer
	if err := output.Render(&buf, format, t); err != nil {
		server.RespondWithError(c, errors.Internal(err))
		return
	}
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// acceptFormats maps media types to renderings.
var acceptFormats = map[string]output.Format{
	"application/json":     output.FormatJSON,
	"application/yaml":     output.FormatYAML,
	"application/x-yaml":   output.FormatYAML,
	"text/yaml":            output.FormatYAML,
	"text/markdown":        output.FormatMarkdown,
	"application/x-subrip": output.FormatSRT,
}

// negotiate picks the rendering: the format query parameter wins, then the
// first recognized Accept media type, then JSON.
func negotiate(c *gin.Context) (output.Format, error) {
	if q := c.Query("format"); q != "" {
		f, err := output.ParseFormat(q)
		if err != nil {
			return "", errors.InvalidInput("format", err.Error())
		}
		return f, nil
	}
	for _, part := range strings.Split(c.GetHeader("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if f, ok := acceptFormats[mt]; ok {
			return f, nil
		}
	}
	return output.FormatJSON, nil
}
