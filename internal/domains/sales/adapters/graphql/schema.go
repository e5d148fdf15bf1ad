// Package graphql exposes the sales service as a GraphQL schema.
package graphql

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"

	identity "github.com/Apurer/agro-sales-dashboard/internal/domains/identity/domain"
	salesapp "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/application"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/sales/domain"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/sales/ports"
)

// Error codes reported under extensions.code.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeBadUserInput    = "BAD_USER_INPUT"
	CodeNotFound        = "NOT_FOUND"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// codedError carries a machine-readable code to the GraphQL error extensions.
type codedError struct {
	err  error
	code string
}

func (e codedError) Error() string { return e.err.Error() }

func (e codedError) Unwrap() error { return e.err }

func (e codedError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, identity.ErrUnauthenticated):
		return codedError{err: err, code: CodeUnauthenticated}
	case errors.Is(err, salesapp.ErrInvalidInput):
		return codedError{err: err, code: CodeBadUserInput}
	case errors.Is(err, ports.ErrNotFound):
		return codedError{err: err, code: CodeNotFound}
	default:
		return codedError{err: errors.New("internal error"), code: CodeInternal}
	}
}

func requireIdentity(p graphql.ResolveParams) error {
	if !identity.FromContext(p.Context).Authenticated() {
		return classify(identity.ErrUnauthenticated)
	}
	return nil
}

// NewSchema builds the executable schema over svc.
func NewSchema(svc ports.Service) (graphql.Schema, error) {
	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return sourceProduct(p.Source).ID, nil
				},
			},
			"name": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return sourceProduct(p.Source).Name, nil
				},
			},
		},
	})

	lineItemType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LineItem",
		Fields: graphql.Fields{
			"product": &graphql.Field{
				Type: productType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					item, _ := p.Source.(domain.LineItem)
					if item.Product == nil {
						return nil, nil
					}
					return *item.Product, nil
				},
			},
			"quantity": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					item, _ := p.Source.(domain.LineItem)
					if item.Quantity == nil {
						return nil, nil
					}
					return int(*item.Quantity), nil
				},
			},
			"unitPrice": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					item, _ := p.Source.(domain.LineItem)
					if item.UnitPrice == nil {
						return nil, nil
					}
					return item.UnitPrice.InexactFloat64(), nil
				},
			},
		},
	})

	saleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Sale",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return sourceOrder(p.Source).ID, nil
				},
			},
			"totalAmount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return sourceOrder(p.Source).TotalAmount.InexactFloat64(), nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					created := sourceOrder(p.Source).CreatedAt
					if created.IsZero() {
						return nil, nil
					}
					return created.UTC().Format(time.RFC3339), nil
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(lineItemType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					items := sourceOrder(p.Source).Products
					if items == nil {
						return []domain.LineItem{}, nil
					}
					return items, nil
				},
			},
		},
	})

	claimType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Claim",
		Fields: graphql.Fields{
			"name":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"value": &graphql.Field{Type: graphql.String},
		},
	})

	viewerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Viewer",
		Fields: graphql.Fields{
			"subject": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Source.(identity.Identity)
					return id.Subject, nil
				},
			},
			"claims": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(claimType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Source.(identity.Identity)
					return claimList(id.Claims), nil
				},
			},
		},
	})

	productUnitsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ProductUnits",
		Fields: graphql.Fields{
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(domain.ProductQuantity).Name, nil
				},
			},
			"quantity": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return int(p.Source.(domain.ProductQuantity).Quantity), nil
				},
			},
		},
	})

	shareType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Share",
		Fields: graphql.Fields{
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(domain.SharePoint).Name, nil
				},
			},
			"percentage": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(domain.SharePoint).Percentage.InexactFloat64(), nil
				},
			},
		},
	})

	summaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SalesSummary",
		Fields: graphql.Fields{
			"totalUnitsSold": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return int(p.Source.(domain.Summary).TotalUnitsSold), nil
				},
			},
			"totalRevenue": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(domain.Summary).TotalRevenue.InexactFloat64(), nil
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productUnitsType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if products := p.Source.(domain.Summary).Products; products != nil {
						return products, nil
					}
					return []domain.ProductQuantity{}, nil
				},
			},
			"shares": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(shareType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if shares := p.Source.(domain.Summary).Shares; shares != nil {
						return shares, nil
					}
					return []domain.SharePoint{}, nil
				},
			},
		},
	})

	saleProductInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "SaleProductInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"productId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"quantity":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
			"unitPrice": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"sales": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(saleType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireIdentity(p); err != nil {
						return nil, err
					}
					orders, err := svc.ListSales(p.Context)
					if err != nil {
						return nil, classify(err)
					}
					return orders, nil
				},
			},
			"sale": &graphql.Field{
				Type: saleType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireIdentity(p); err != nil {
						return nil, err
					}
					id, _ := p.Args["id"].(string)
					order, err := svc.GetSale(p.Context, id)
					if errors.Is(err, ports.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, classify(err)
					}
					return order, nil
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireIdentity(p); err != nil {
						return nil, err
					}
					products, err := svc.ListProducts(p.Context)
					if err != nil {
						return nil, classify(err)
					}
					return products, nil
				},
			},
			"salesSummary": &graphql.Field{
				Type: graphql.NewNonNull(summaryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireIdentity(p); err != nil {
						return nil, err
					}
					summary, err := svc.Summary(p.Context)
					if err != nil {
						return nil, classify(err)
					}
					return summary, nil
				},
			},
			"me": &graphql.Field{
				Type: viewerType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := identity.FromContext(p.Context)
					if !id.Authenticated() {
						return nil, nil
					}
					return id, nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createSale": &graphql.Field{
				Type: graphql.NewNonNull(saleType),
				Args: graphql.FieldConfigArgument{
					"products": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(saleProductInput))),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireIdentity(p); err != nil {
						return nil, err
					}
					items, err := lineItemInputs(p.Args["products"])
					if err != nil {
						return nil, classify(err)
					}
					order, err := svc.CreateSale(p.Context, items)
					if err != nil {
						return nil, classify(err)
					}
					return order, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

func sourceOrder(src interface{}) *domain.Order {
	if order, ok := src.(*domain.Order); ok && order != nil {
		return order
	}
	return &domain.Order{}
}

func sourceProduct(src interface{}) domain.Product {
	switch v := src.(type) {
	case domain.Product:
		return v
	case *domain.Product:
		if v != nil {
			return *v
		}
	}
	return domain.Product{}
}

func lineItemInputs(raw interface{}) ([]ports.LineItemInput, error) {
	list, _ := raw.([]interface{})
	items := make([]ports.LineItemInput, 0, len(list))
	for i, entry := range list {
		fields, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: line %d is not an object", salesapp.ErrInvalidInput, i)
		}
		productID, _ := fields["productId"].(string)
		quantity, _ := fields["quantity"].(int)
		price, _ := fields["unitPrice"].(float64)
		items = append(items, ports.LineItemInput{
			ProductID: productID,
			Quantity:  int64(quantity),
			UnitPrice: decimal.NewFromFloat(price),
		})
	}
	return items, nil
}

type claim struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func claimList(claims map[string]any) []claim {
	names := make([]string, 0, len(claims))
	for name := range claims {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]claim, 0, len(names))
	for _, name := range names {
		value := claims[name]
		if s, ok := value.(string); ok {
			out = append(out, claim{Name: name, Value: s})
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			encoded = []byte(fmt.Sprint(value))
		}
		out = append(out, claim{Name: name, Value: string(encoded)})
	}
	return out
}
