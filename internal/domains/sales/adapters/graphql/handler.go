package graphql

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"

	problems "github.com/Apurer/agro-sales-dashboard/internal/shared/errors"
)

// Request is the standard GraphQL-over-HTTP request body.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// Handler executes GraphQL requests against a schema.
type Handler struct {
	schema graphql.Schema
	logger *slog.Logger
}

func NewHandler(schema graphql.Schema, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{schema: schema, logger: logger}
}

// Register mounts POST and GET /graphql.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/graphql", h.Serve)
	r.GET("/graphql", h.Serve)
}

// Serve decodes the request, runs it with the request context and writes the
// GraphQL result. Execution errors are reported in the result body with 200.
func (h *Handler) Serve(c *gin.Context) {
	req, err := decodeRequest(c)
	if err != nil {
		problems.Respond(c, problems.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		problems.Respond(c, problems.ErrBadRequest.WithDetail("query is required"))
		return
	}
	if c.Request.Method == http.MethodGet && isMutation(req.Query, req.OperationName) {
		problems.Respond(c, problems.ErrMethodNotAllowed.WithDetail("mutations require POST"))
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request.Context(),
	})
	if result.HasErrors() {
		for _, e := range result.Errors {
			h.logger.WarnContext(c.Request.Context(), "graphql error",
				slog.String("operation", req.OperationName),
				slog.String("error", e.Message))
		}
	}
	c.JSON(http.StatusOK, result)
}

func decodeRequest(c *gin.Context) (Request, error) {
	var req Request
	if c.Request.Method == http.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if raw := c.Query("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				return Request{}, err
			}
		}
		return req, nil
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// isMutation reports whether the operation graphql.Do would run is a
// mutation. Without an operation name a document holding several operations
// counts as a mutation if any of them is one. Unparseable documents return
// false and fail during execution instead.
func isMutation(query, operationName string) bool {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return false
	}
	var ops []*ast.OperationDefinition
	for _, def := range doc.Definitions {
		if op, ok := def.(*ast.OperationDefinition); ok {
			ops = append(ops, op)
		}
	}
	for _, op := range ops {
		if operationName != "" && (op.Name == nil || op.Name.Value != operationName) {
			continue
		}
		if op.Operation == ast.OperationTypeMutation {
			return true
		}
	}
	return false
}
