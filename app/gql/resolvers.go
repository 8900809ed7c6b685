package gql

import (
	"postboard/app/services"

	"github.com/graphql-go/graphql"
)

func (r *resolver) commentsByPost(p graphql.ResolveParams) (interface{}, error) {
	actor, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	postID := intArg(p, "postId")
	r.diag.Printf("Fetching comments for post %d", postID)
	threads, err := r.svc.Comments.ListThreads(p.Context, actor, postID)
	if err != nil {
		return nil, err
	}
	return threadsList(threads), nil
}

func (r *resolver) post(p graphql.ResolveParams) (interface{}, error) {
	actor, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	id := intArg(p, "id")
	r.diag.Printf("Fetching post %d", id)
	detail, err := r.svc.Posts.GetPostDetail(p.Context, actor, id)
	if err != nil {
		return nil, err
	}
	return detailMap(detail), nil
}

func (r *resolver) posts(p graphql.ResolveParams) (interface{}, error) {
	actor, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	r.diag.Printf("Fetching all posts")
	posts, err := r.svc.Posts.ListPosts(p.Context, actor)
	if err != nil {
		return nil, err
	}
	return postsList(posts), nil
}

func (r *resolver) users(p graphql.ResolveParams) (interface{}, error) {
	actor, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	r.diag.Printf("Fetching all users")
	users, err := r.svc.Users.ListUsers(p.Context, actor)
	if err != nil {
		return nil, err
	}
	return usersList(users), nil
}

func (r *resolver) user(p graphql.ResolveParams) (interface{}, error) {
	actor, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	id := intArg(p, "id")
	r.diag.Printf("Fetching user %d", id)
	user, err := r.svc.Users.GetUser(p.Context, actor, id)
	if err != nil {
		return nil, err
	}
	return userMap(user), nil
}

func (r *resolver) ratePost(p graphql.ResolveParams) (interface{}, error) {
	actor, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	postID, value := intArg(p, "postId"), intArg(p, "rating")
	r.diag.Printf("User %d rating post %d with %d", actor.ID, postID, value)
	rating, err := r.svc.Engagement.RatePost(p.Context, actor, postID, value)
	if err != nil {
		return nil, err
	}
	return ratingMap(rating), nil
}

func (r *resolver) toggleLike(p graphql.ResolveParams) (interface{}, error) {
	actor, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	postID := intArg(p, "postId")
	r.diag.Printf("User %d toggling like on post %d", actor.ID, postID)
	liked, err := r.svc.Engagement.ToggleLike(p.Context, actor, postID)
	if err != nil {
		return nil, err
	}
	message := "Unliked"
	if liked {
		message = "Liked"
	}
	return map[string]interface{}{"postId": postID, "liked": liked, "message": message}, nil
}

func (r *resolver) addComment(p graphql.ResolveParams) (interface{}, error) {
	actor, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	in := services.AddCommentInput{
		Content:         stringArg(p, "content"),
		PostID:          intArg(p, "postId"),
		ParentCommentID: optIntArg(p, "parentCommentId"),
	}
	r.diag.Printf("User %d commenting on post %d", actor.ID, in.PostID)
	comment, err := r.svc.Comments.AddComment(p.Context, actor, in)
	if err != nil {
		return nil, err
	}
	m := commentMap(comment)
	m["replies"] = []interface{}{}
	return m, nil
}

func (r *resolver) deleteComment(p graphql.ResolveParams) (interface{}, error) {
	actor, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	id := intArg(p, "id")
	r.diag.Printf("User %d deleting comment %d", actor.ID, id)
	if err := r.svc.Comments.DeleteComment(p.Context, actor, id); err != nil {
		return nil, err
	}
	return "Comment deleted successfully", nil
}

func (r *resolver) createPost(p graphql.ResolveParams) (interface{}, error) {
	actor, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	r.diag.Printf("User %d creating post", actor.ID)
	post, err := r.svc.Posts.CreatePost(p.Context, actor, stringArg(p, "caption"), stringListArg(p, "mediaUrl"))
	if err != nil {
		return nil, err
	}
	return postMap(post), nil
}

func (r *resolver) updatePost(p graphql.ResolveParams) (interface{}, error) {
	actor, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	in := services.UpdatePostInput{
		ID:       intArg(p, "id"),
		Caption:  optStringArg(p, "caption"),
		MediaURL: stringListArg(p, "mediaUrl"),
	}
	r.diag.Printf("User %d updating post %d", actor.ID, in.ID)
	post, err := r.svc.Posts.UpdatePost(p.Context, actor, in)
	if err != nil {
		return nil, err
	}
	return postMap(post), nil
}

func (r *resolver) deletePost(p graphql.ResolveParams) (interface{}, error) {
	actor, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	id := intArg(p, "id")
	r.diag.Printf("User %d deleting post %d", actor.ID, id)
	if err := r.svc.Posts.DeletePost(p.Context, actor, id); err != nil {
		return nil, err
	}
	return "Post deleted successfully", nil
}

func (r *resolver) signup(p graphql.ResolveParams) (interface{}, error) {
	in := services.SignupInput{
		Username:       stringArg(p, "username"),
		Email:          stringArg(p, "email"),
		Password:       stringArg(p, "password"),
		Bio:            stringArg(p, "bio"),
		ProfilePicture: stringArg(p, "profilePicture"),
	}
	r.diag.Printf("Signing up %s", in.Email)
	user, err := r.svc.Users.Signup(p.Context, in)
	if err != nil {
		return nil, err
	}
	return userMap(user), nil
}

func (r *resolver) login(p graphql.ResolveParams) (interface{}, error) {
	email := stringArg(p, "email")
	r.diag.Printf("Login attempt for %s", email)
	res, err := r.svc.Users.Login(p.Context, email, stringArg(p, "password"))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"token":     res.Token,
		"userId":    res.UserID,
		"role":      res.Role,
		"expiresAt": timestamp(res.ExpiresAt),
	}, nil
}

func (r *resolver) updateUser(p graphql.ResolveParams) (interface{}, error) {
	actor, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	in := services.UpdateUserInput{
		Username:       optStringArg(p, "username"),
		Email:          optStringArg(p, "email"),
		Password:       optStringArg(p, "password"),
		Bio:            optStringArg(p, "bio"),
		ProfilePicture: optStringArg(p, "profilePicture"),
	}
	r.diag.Printf("User %d updating profile", actor.ID)
	user, err := r.svc.Users.UpdateUser(p.Context, actor, in)
	if err != nil {
		return nil, err
	}
	return userMap(user), nil
}

func (r *resolver) deleteUser(p graphql.ResolveParams) (interface{}, error) {
	actor, err := actorFrom(p.Context)
	if err != nil {
		return nil, err
	}
	id := intArg(p, "id")
	r.diag.Printf("User %d deleting user %d", actor.ID, id)
	if err := r.svc.Users.DeleteUser(p.Context, actor, id); err != nil {
		return nil, err
	}
	return "User deleted successfully", nil
}
