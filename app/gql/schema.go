// Package gql serves the GraphQL surface over the shared service layer.
package gql

import (
	"log"

	"postboard/app/apperr"
	"postboard/app/diaglog"
	"postboard/app/metrics"
	"postboard/app/services"
	"postboard/app/tracing"

	"github.com/graphql-go/graphql"
)

type resolver struct {
	svc     *services.Services
	diag    *diaglog.Logger
	metrics *metrics.Metrics
}

// instrument wraps a root field resolver with a span and a metric.
func (r *resolver) instrument(name string, fn graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		ctx, end := tracing.StartSpan(p.Context, "graphql."+name)
		p.Context = ctx
		res, err := fn(p)
		end(err)
		r.metrics.ObserveResolve(name, err)
		if err != nil && apperr.KindOf(err) == apperr.Internal {
			log.Printf("graphql %s: %v", name, err)
			return nil, apperr.Public(err)
		}
		return res, err
	}
}

// NewSchema builds the schema with every query and mutation bound to svc.
func NewSchema(svc *services.Services, diag *diaglog.Logger, m *metrics.Metrics) (graphql.Schema, error) {
	r := &resolver{svc: svc, diag: diag, metrics: m}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"commentsByPost": &graphql.Field{
				Type: graphql.NewList(commentType),
				Args: graphql.FieldConfigArgument{
					"postId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.instrument("commentsByPost", r.commentsByPost),
			},
			"post": &graphql.Field{
				Type: postDetailType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.instrument("post", r.post),
			},
			"posts": &graphql.Field{
				Type:    graphql.NewList(postType),
				Resolve: r.instrument("posts", r.posts),
			},
			"users": &graphql.Field{
				Type:    graphql.NewList(userType),
				Resolve: r.instrument("users", r.users),
			},
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.instrument("user", r.user),
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"ratePost": &graphql.Field{
				Type: ratingType,
				Args: graphql.FieldConfigArgument{
					"postId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"rating": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.instrument("ratePost", r.ratePost),
			},
			"toggleLike": &graphql.Field{
				Type: likeType,
				Args: graphql.FieldConfigArgument{
					"postId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.instrument("toggleLike", r.toggleLike),
			},
			"addComment": &graphql.Field{
				Type: commentType,
				Args: graphql.FieldConfigArgument{
					"postId":          &graphql.ArgumentConfig{Type: graphql.Int},
					"content":         &graphql.ArgumentConfig{Type: graphql.String},
					"parentCommentId": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.instrument("addComment", r.addComment),
			},
			"deleteComment": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.instrument("deleteComment", r.deleteComment),
			},
			"createPost": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"caption":  &graphql.ArgumentConfig{Type: graphql.String},
					"mediaUrl": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
				},
				Resolve: r.instrument("createPost", r.createPost),
			},
			"updatePost": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"caption":  &graphql.ArgumentConfig{Type: graphql.String},
					"mediaUrl": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
				},
				Resolve: r.instrument("updatePost", r.updatePost),
			},
			"deletePost": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.instrument("deletePost", r.deletePost),
			},
			"signup": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"username":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"bio":            &graphql.ArgumentConfig{Type: graphql.String},
					"profilePicture": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.instrument("signup", r.signup),
			},
			"login": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.instrument("login", r.login),
			},
			"updateUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"username":       &graphql.ArgumentConfig{Type: graphql.String},
					"email":          &graphql.ArgumentConfig{Type: graphql.String},
					"password":       &graphql.ArgumentConfig{Type: graphql.String},
					"bio":            &graphql.ArgumentConfig{Type: graphql.String},
					"profilePicture": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.instrument("updateUser", r.updateUser),
			},
			"deleteUser": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.instrument("deleteUser", r.deleteUser),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
