package gql

import "github.com/graphql-go/graphql"

func intArg(p graphql.ResolveParams, name string) int {
	v, _ := p.Args[name].(int)
	return v
}

func optIntArg(p graphql.ResolveParams, name string) *int {
	v, ok := p.Args[name].(int)
	if !ok {
		return nil
	}
	return &v
}

func stringArg(p graphql.ResolveParams, name string) string {
	v, _ := p.Args[name].(string)
	return v
}

func optStringArg(p graphql.ResolveParams, name string) *string {
	v, ok := p.Args[name].(string)
	if !ok {
		return nil
	}
	return &v
}

// stringListArg returns nil when the argument was not supplied.
func stringListArg(p graphql.ResolveParams, name string) []string {
	raw, ok := p.Args[name].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
