package gql

import (
	"context"
	"encoding/json"
	"net/http"

	"postboard/app/auth"
	"postboard/app/diaglog"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

type request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Handler executes GraphQL requests sent as JSON POST bodies or GET
// query parameters.
type Handler struct {
	schema graphql.Schema
	issuer *auth.Issuer
	diag   *diaglog.Logger
}

func NewHandler(schema graphql.Schema, issuer *auth.Issuer, diag *diaglog.Logger) *Handler {
	return &Handler{schema: schema, issuer: issuer, diag: diag}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil || req.Query == "" {
		msg := "Must provide query string"
		if err != nil {
			msg = "Invalid request body"
		}
		h.diag.Printf("GraphQL Error: %s", msg)
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"errors": []map[string]string{{"message": msg}},
		})
		return
	}
	if r.Method == http.MethodGet && isMutation(req.Query, req.OperationName) {
		msg := "Can only perform a mutation operation from a POST request."
		h.diag.Printf("GraphQL Error: %s", msg)
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]interface{}{
			"errors": []map[string]string{{"message": msg}},
		})
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        h.authenticate(r),
	})
	for _, e := range result.Errors {
		h.diag.Error("GraphQL", e)
	}
	writeJSON(w, http.StatusOK, result)
}

// authenticate resolves the bearer token once per request. A rejected
// token is kept on the context so resolvers needing a caller report it.
func (h *Handler) authenticate(r *http.Request) context.Context {
	ctx := r.Context()
	token := auth.BearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return ctx
	}
	p, err := h.issuer.Validate(ctx, token)
	if err != nil {
		return withAuthError(ctx, err)
	}
	return auth.WithPrincipal(ctx, p)
}

func decodeRequest(r *http.Request) (request, error) {
	var req request
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if v := q.Get("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
				return req, err
			}
		}
		return req, nil
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}

// isMutation reports whether the operation that would run is a mutation.
// Unparsable queries return false and are rejected by execution instead.
func isMutation(query, operationName string) bool {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return false
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName != "" && (op.Name == nil || op.Name.Value != operationName) {
			continue
		}
		if op.Operation == ast.OperationTypeMutation {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
