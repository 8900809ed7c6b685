package gql

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"postboard/app/auth"
	"postboard/app/diaglog"
	"postboard/app/metrics"
	"postboard/app/repositories"
	"postboard/app/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	diag    *bytes.Buffer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := repositories.NewInMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	repos := repositories.NewRepositories(store)
	issuer := auth.NewIssuer("test-secret", time.Hour, repos.Sessions)
	svc := services.New(repos, issuer)

	var buf bytes.Buffer
	diag := diaglog.New(&buf)
	schema, err := NewSchema(svc, diag, metrics.New())
	require.NoError(t, err)
	return &testServer{t: t, handler: NewHandler(schema, issuer, diag), diag: &buf}
}

func (s *testServer) do(token, query string, vars map[string]interface{}) gqlResponse {
	s.t.Helper()
	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": vars})
	require.NoError(s.t, err)
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp gqlResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// register signs up and logs in, returning the token and user id.
func (s *testServer) register(username, email string) (string, int) {
	s.t.Helper()
	resp := s.do("", `mutation($u: String!, $e: String!) {
		signup(username: $u, email: $e, password: "pw123456") { id }
	}`, map[string]interface{}{"u": username, "e": email})
	require.Empty(s.t, resp.Errors)

	resp = s.do("", `mutation($e: String!) {
		login(email: $e, password: "pw123456") { token userId role }
	}`, map[string]interface{}{"e": email})
	require.Empty(s.t, resp.Errors)

	var login struct {
		Token  string `json:"token"`
		UserID int    `json:"userId"`
		Role   string `json:"role"`
	}
	require.NoError(s.t, json.Unmarshal(resp.Data["login"], &login))
	require.Equal(s.t, "user", login.Role)
	return login.Token, login.UserID
}

func (s *testServer) createPost(token string) int {
	s.t.Helper()
	resp := s.do(token, `mutation { createPost(caption: "hello", mediaUrl: ["https://cdn.example.com/a.png"]) { id userId mediaUrl } }`, nil)
	require.Empty(s.t, resp.Errors)
	var post struct {
		ID       int      `json:"id"`
		MediaURL []string `json:"mediaUrl"`
	}
	require.NoError(s.t, json.Unmarshal(resp.Data["createPost"], &post))
	require.Equal(s.t, []string{"https://cdn.example.com/a.png"}, post.MediaURL)
	return post.ID
}

func TestCommentThreadsOverGraphQL(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("alice", "a@x.com")
	postID := s.createPost(token)

	resp := s.do(token, `mutation($p: Int) { addComment(postId: $p, content: "root") { id parentCommentId } }`,
		map[string]interface{}{"p": postID})
	require.Empty(t, resp.Errors)
	var root struct {
		ID     int  `json:"id"`
		Parent *int `json:"parentCommentId"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["addComment"], &root))
	assert.Nil(t, root.Parent)

	resp = s.do(token, `mutation($p: Int, $parent: Int) { addComment(postId: $p, content: "reply", parentCommentId: $parent) { id } }`,
		map[string]interface{}{"p": postID, "parent": root.ID})
	require.Empty(t, resp.Errors)

	resp = s.do(token, `query($p: Int!) { commentsByPost(postId: $p) { id content user { username email } replies { content parentCommentId user { username email } } } }`,
		map[string]interface{}{"p": postID})
	require.Empty(t, resp.Errors)

	type author struct {
		Username string  `json:"username"`
		Email    *string `json:"email"`
	}
	var threads []struct {
		ID      int    `json:"id"`
		Content string `json:"content"`
		User    author `json:"user"`
		Replies []struct {
			Content string `json:"content"`
			Parent  int    `json:"parentCommentId"`
			User    author `json:"user"`
		} `json:"replies"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["commentsByPost"], &threads))
	require.Len(t, threads, 1)
	assert.Equal(t, "root", threads[0].Content)
	require.Len(t, threads[0].Replies, 1)
	assert.Equal(t, "reply", threads[0].Replies[0].Content)
	assert.Equal(t, root.ID, threads[0].Replies[0].Parent)
	assert.Equal(t, "alice", threads[0].User.Username)
	require.NotNil(t, threads[0].User.Email)
	assert.Equal(t, "a@x.com", *threads[0].User.Email)
	assert.Equal(t, "alice", threads[0].Replies[0].User.Username)
	assert.Nil(t, threads[0].Replies[0].User.Email)

	assert.Contains(t, s.diag.String(), fmt.Sprintf("Fetching comments for post %d", postID))
}

func TestRatePostRejectsOutOfRange(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("alice", "a@x.com")
	postID := s.createPost(token)

	for _, rating := range []int{0, 6} {
		resp := s.do(token, `mutation($p: Int!, $r: Int!) { ratePost(postId: $p, rating: $r) { rating } }`,
			map[string]interface{}{"p": postID, "r": rating})
		require.Len(t, resp.Errors, 1, "rating %d", rating)
		assert.Equal(t, "Rating must be between 1 and 5", resp.Errors[0].Message)
		assert.Equal(t, "ValidationError", resp.Errors[0].Extensions["code"])
	}
	assert.Contains(t, s.diag.String(), "GraphQL Error: Rating must be between 1 and 5")

	resp := s.do(token, `mutation($p: Int!) { ratePost(postId: $p, rating: 4) { rating } }`,
		map[string]interface{}{"p": postID})
	require.Empty(t, resp.Errors)

	resp = s.do(token, `query($p: Int!) { post(id: $p) { likeCount avgRating post { caption user { id username email } } } }`,
		map[string]interface{}{"p": postID})
	require.Empty(t, resp.Errors)
	var detail struct {
		LikeCount int     `json:"likeCount"`
		AvgRating *string `json:"avgRating"`
		Post      struct {
			User struct {
				ID       int    `json:"id"`
				Username string `json:"username"`
				Email    string `json:"email"`
			} `json:"user"`
		} `json:"post"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["post"], &detail))
	require.NotNil(t, detail.AvgRating)
	assert.Equal(t, "4.00", *detail.AvgRating)
	assert.Equal(t, "alice", detail.Post.User.Username)
	assert.Equal(t, "a@x.com", detail.Post.User.Email)
	assert.NotZero(t, detail.Post.User.ID)
}

func TestToggleLikeOverGraphQL(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("alice", "a@x.com")

	want := []string{"Liked", "Unliked", "Liked"}
	for _, msg := range want {
		resp := s.do(token, `mutation { toggleLike(postId: 3) { liked message } }`, nil)
		require.Empty(t, resp.Errors)
		var like struct {
			Liked   bool   `json:"liked"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(resp.Data["toggleLike"], &like))
		assert.Equal(t, msg, like.Message)
		assert.Equal(t, msg == "Liked", like.Liked)
	}
}

func TestAuthErrors(t *testing.T) {
	s := newTestServer(t)
	first, _ := s.register("alice", "a@x.com")

	t.Run("no token", func(t *testing.T) {
		resp := s.do("", `{ user { id } }`, nil)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "No token provided", resp.Errors[0].Message)
		assert.Equal(t, "Unauthenticated", resp.Errors[0].Extensions["code"])
	})

	t.Run("superseded token", func(t *testing.T) {
		resp := s.do("", `mutation { login(email: "a@x.com", password: "pw123456") { token } }`, nil)
		require.Empty(t, resp.Errors)

		resp = s.do(first, `{ user { id } }`, nil)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "Token is invalid or expired", resp.Errors[0].Message)
	})

	t.Run("admin only queries", func(t *testing.T) {
		token, _ := s.register("bob", "b@x.com")
		resp := s.do(token, `{ users { id } }`, nil)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "Access denied", resp.Errors[0].Message)
		assert.Equal(t, "AccessDenied", resp.Errors[0].Extensions["code"])

		resp = s.do(token, `{ posts { id } }`, nil)
		require.Len(t, resp.Errors, 1)
	})
}

func TestUserMutations(t *testing.T) {
	s := newTestServer(t)
	alice, aliceID := s.register("alice", "a@x.com")
	bob, bobID := s.register("bob", "b@x.com")

	resp := s.do(alice, `mutation { updateUser(bio: "about me") { id bio role } }`, nil)
	require.Empty(t, resp.Errors)
	var updated struct {
		ID   int    `json:"id"`
		Bio  string `json:"bio"`
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["updateUser"], &updated))
	assert.Equal(t, aliceID, updated.ID)
	assert.Equal(t, "about me", updated.Bio)

	// a non-admin asking for someone else's record gets their own
	resp = s.do(alice, `query($id: Int) { user(id: $id) { id username } }`, map[string]interface{}{"id": bobID})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%d,"username":"alice"}`, aliceID), string(resp.Data["user"]))

	// and deleting someone else deletes themselves
	resp = s.do(alice, `mutation($id: Int) { deleteUser(id: $id) }`, map[string]interface{}{"id": bobID})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `"User deleted successfully"`, string(resp.Data["deleteUser"]))

	resp = s.do(alice, `{ user { id } }`, nil)
	require.Len(t, resp.Errors, 1)
	resp = s.do(bob, `{ user { username } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"username":"bob"}`, string(resp.Data["user"]))

	resp = s.do(bob, `mutation { deleteUser }`, nil)
	require.Empty(t, resp.Errors)
	resp = s.do(bob, `{ user { id } }`, nil)
	require.Len(t, resp.Errors, 1)
}

func TestPostMutations(t *testing.T) {
	s := newTestServer(t)
	alice, _ := s.register("alice", "a@x.com")
	bob, _ := s.register("bob", "b@x.com")
	postID := s.createPost(alice)

	resp := s.do(bob, `mutation($id: Int!) { updatePost(id: $id, caption: "mine now") { caption } }`,
		map[string]interface{}{"id": postID})
	require.Len(t, resp.Errors, 1)

	resp = s.do(alice, `mutation($id: Int!) { updatePost(id: $id, caption: "edited") { caption mediaUrl } }`,
		map[string]interface{}{"id": postID})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"caption":"edited","mediaUrl":["https://cdn.example.com/a.png"]}`, string(resp.Data["updatePost"]))

	resp = s.do(alice, `mutation($id: Int!) { deletePost(id: $id) }`, map[string]interface{}{"id": postID})
	require.Empty(t, resp.Errors)

	resp = s.do(alice, `query($id: Int!) { post(id: $id) { likeCount } }`, map[string]interface{}{"id": postID})
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Post not found", resp.Errors[0].Message)
}

func TestGetRequestsAndBadBodies(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("alice", "a@x.com")

	q := url.Values{"query": {`{ user { username } }`}}
	req := httptest.NewRequest(http.MethodGet, "/graphql?"+q.Encode(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"user":{"username":"alice"}}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewBufferString("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewBufferString(`{"query":""}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRejectsMutations(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("alice", "a@x.com")

	get := func(values url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/graphql?"+values.Encode(), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		return rec
	}

	rec := get(url.Values{"query": {`mutation { createPost(caption: "via GET") { id } }`}})
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
	assert.JSONEq(t, `{"errors":[{"message":"Can only perform a mutation operation from a POST request."}]}`, rec.Body.String())
	assert.Contains(t, s.diag.String(), "Can only perform a mutation operation")

	// the mutation never ran, so the next post still gets the first id
	resp := s.do(token, `mutation { createPost(caption: "via POST") { id } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"id":1}`, string(resp.Data["createPost"]))

	// a named query next to a mutation is still allowed
	rec = get(url.Values{
		"query":         {`query Me { user { username } } mutation Drop { deleteUser }`},
		"operationName": {"Me"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"user":{"username":"alice"}}}`, rec.Body.String())

	rec = get(url.Values{
		"query":         {`query Me { user { username } } mutation Drop { deleteUser }`},
		"operationName": {"Drop"},
	})
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
