// Package graphql serves the read-only admin stats endpoint.
//
//	{ stats { revenue, orders { status, count }, contacts { status, count } } }
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/workhive/workhive/app/repositories"
	"github.com/workhive/workhive/pkg/response"
)

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

var statusCountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "StatusCount",
	Fields: graphql.Fields{
		"status": &graphql.Field{Type: graphql.String},
		"count":  &graphql.Field{Type: graphql.Int},
	},
})

// NewHandler builds the /api/admin/graphql handler over the order and
// contact repositories.
func NewHandler(orders *repositories.OrderRepository, contacts *repositories.ContactRepository) (http.HandlerFunc, error) {
	statsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Stats",
		Fields: graphql.Fields{
			"revenue": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return orders.Revenue()
				},
			},
			"orders": &graphql.Field{
				Type: graphql.NewList(statusCountType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					counts, err := orders.CountByStatus()
					if err != nil {
						return nil, err
					}
					out := make([]statusCount, 0, len(counts))
					for status, n := range counts {
						out = append(out, statusCount{Status: string(status), Count: n})
					}
					return out, nil
				},
			},
			"contacts": &graphql.Field{
				Type: graphql.NewList(statusCountType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					counts, err := contacts.CountByStatus()
					if err != nil {
						return nil, err
					}
					out := make([]statusCount, 0, len(counts))
					for status, n := range counts {
						out = append(out, statusCount{Status: status, Count: n})
					}
					return out, nil
				},
			},
		},
	})

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"stats": &graphql.Field{
				Type: statsType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					// Field resolvers above do the actual reads.
					return struct{}{}, nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid GraphQL request body")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
			Context:        r.Context(),
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result) //nolint:errcheck
	}, nil
}
