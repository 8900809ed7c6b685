package gql

import (
	"time"

	"postboard/app/models"

	"github.com/graphql-go/graphql"
)

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"username":       &graphql.Field{Type: graphql.String},
		"email":          &graphql.Field{Type: graphql.String},
		"bio":            &graphql.Field{Type: graphql.String},
		"profilePicture": &graphql.Field{Type: graphql.String},
		"role":           &graphql.Field{Type: graphql.String},
		"createdAt":      &graphql.Field{Type: graphql.String},
	},
})

var authorType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Author",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"username": &graphql.Field{Type: graphql.String},
		"email":    &graphql.Field{Type: graphql.String},
	},
})

// The user field is only filled in on post detail and comment reads.
var postType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Post",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"userId":    &graphql.Field{Type: graphql.Int},
		"user":      &graphql.Field{Type: authorType},
		"caption":   &graphql.Field{Type: graphql.String},
		"mediaUrl":  &graphql.Field{Type: graphql.NewList(graphql.String)},
		"createdAt": &graphql.Field{Type: graphql.String},
	},
})

var replyType = graphql.NewObject(graphql.ObjectConfig{
	Name:   "Reply",
	Fields: commentFields(),
})

var commentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Comment",
	Fields: func() graphql.Fields {
		f := commentFields()
		f["replies"] = &graphql.Field{Type: graphql.NewList(replyType)}
		return f
	}(),
})

var postDetailType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PostDetail",
	Fields: graphql.Fields{
		"post":      &graphql.Field{Type: postType},
		"comments":  &graphql.Field{Type: graphql.NewList(commentType)},
		"likeCount": &graphql.Field{Type: graphql.Int},
		"avgRating": &graphql.Field{Type: graphql.String},
	},
})

var ratingType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Rating",
	Fields: graphql.Fields{
		"userId": &graphql.Field{Type: graphql.Int},
		"postId": &graphql.Field{Type: graphql.Int},
		"rating": &graphql.Field{Type: graphql.Int},
	},
})

var likeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "LikeStatus",
	Fields: graphql.Fields{
		"postId":  &graphql.Field{Type: graphql.Int},
		"liked":   &graphql.Field{Type: graphql.Boolean},
		"message": &graphql.Field{Type: graphql.String},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"token":     &graphql.Field{Type: graphql.String},
		"userId":    &graphql.Field{Type: graphql.Int},
		"role":      &graphql.Field{Type: graphql.String},
		"expiresAt": &graphql.Field{Type: graphql.String},
	},
})

func commentFields() graphql.Fields {
	return graphql.Fields{
		"id":              &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"content":         &graphql.Field{Type: graphql.String},
		"postId":          &graphql.Field{Type: graphql.Int},
		"userId":          &graphql.Field{Type: graphql.Int},
		"user":            &graphql.Field{Type: authorType},
		"parentCommentId": &graphql.Field{Type: graphql.Int},
		"createdAt":       &graphql.Field{Type: graphql.String},
	}
}

// The default resolver reads map keys, so domain values are flattened
// into maps keyed by their GraphQL field names.

func timestamp(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func userMap(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":             u.ID,
		"username":       u.Username,
		"email":          u.Email,
		"bio":            u.Bio,
		"profilePicture": u.ProfilePicture,
		"role":           u.Role,
		"createdAt":      timestamp(u.CreatedAt),
	}
}

func usersList(users []*models.User) []interface{} {
	out := make([]interface{}, 0, len(users))
	for _, u := range users {
		out = append(out, userMap(u))
	}
	return out
}

func postMap(p *models.Post) map[string]interface{} {
	media := make([]interface{}, 0, len(p.MediaURL))
	for _, u := range p.MediaURL {
		media = append(media, u)
	}
	return map[string]interface{}{
		"id":        p.ID,
		"userId":    p.UserID,
		"caption":   p.Caption,
		"mediaUrl":  media,
		"createdAt": timestamp(p.CreatedAt),
	}
}

func authorMap(a *models.Author) interface{} {
	if a == nil {
		return nil
	}
	m := map[string]interface{}{
		"id":       a.ID,
		"username": a.Username,
		"email":    nil,
	}
	if a.Email != "" {
		m["email"] = a.Email
	}
	return m
}

func postsList(posts []*models.Post) []interface{} {
	out := make([]interface{}, 0, len(posts))
	for _, p := range posts {
		out = append(out, postMap(p))
	}
	return out
}

func commentMap(c *models.Comment) map[string]interface{} {
	m := map[string]interface{}{
		"id":              c.ID,
		"content":         c.Content,
		"postId":          c.PostID,
		"userId":          c.UserID,
		"parentCommentId": nil,
		"createdAt":       timestamp(c.CreatedAt),
	}
	if c.ParentCommentID != nil {
		m["parentCommentId"] = *c.ParentCommentID
	}
	return m
}

func threadsList(threads []*models.CommentThread) []interface{} {
	out := make([]interface{}, 0, len(threads))
	for _, t := range threads {
		m := commentMap(t.Comment)
		m["user"] = authorMap(t.User)
		replies := make([]interface{}, 0, len(t.Replies))
		for _, r := range t.Replies {
			reply := commentMap(r.Comment)
			reply["user"] = authorMap(r.User)
			replies = append(replies, reply)
		}
		m["replies"] = replies
		out = append(out, m)
	}
	return out
}

func detailMap(d *models.PostDetail) map[string]interface{} {
	post := postMap(d.Post.Post)
	post["user"] = authorMap(d.Post.User)
	m := map[string]interface{}{
		"post":      post,
		"comments":  threadsList(d.Comments),
		"likeCount": d.LikeCount,
		"avgRating": nil,
	}
	if d.AvgRating != nil {
		m["avgRating"] = *d.AvgRating
	}
	return m
}

func ratingMap(r *models.Rating) map[string]interface{} {
	return map[string]interface{}{
		"userId": r.UserID,
		"postId": r.PostID,
		"rating": r.Rating,
	}
}
