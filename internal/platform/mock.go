package platform

import "context"

// MockClient is a func-field test double for Client. Unset fields return zero
// values so tests only wire what they assert on.
type MockClient struct {
	KindValue Kind

	GetIssueFunc                  func(ctx context.Context, number int) (*Issue, error)
	GetPullRequestFunc            func(ctx context.Context, number int) (*PullRequest, error)
	ListIssueCommentsFunc         func(ctx context.Context, number int) ([]IssueComment, error)
	ListReviewsFunc               func(ctx context.Context, number int) ([]Review, error)
	ListPullFilesFunc             func(ctx context.Context, number int) ([]ChangedFile, error)
	GetUserFunc                   func(ctx context.Context, login string) (*User, error)
	GetCollaboratorPermissionFunc func(ctx context.Context, login string) (string, error)
	IsCollaboratorFunc            func(ctx context.Context, login string) (bool, error)
	GetBranchFunc                 func(ctx context.Context, name string) (*Branch, error)
	DeleteBranchFunc              func(ctx context.Context, name string) error
	RenderedBodyFunc              func(ctx context.Context, kind BodyKind, number int, id int64) (string, error)
	CreateCommentFunc             func(ctx context.Context, number int, body string) (int64, error)
	UpdateCommentFunc             func(ctx context.Context, commentID int64, body string) error

	// Call tracking.
	RenderedBodyCalls []BodyKind
	DeletedBranches   []string
}

func (m *MockClient) Kind() Kind {
	if m.KindValue == "" {
		return KindGitHub
	}
	return m.KindValue
}

func (m *MockClient) GetIssue(ctx context.Context, number int) (*Issue, error) {
	if m.GetIssueFunc != nil {
		return m.GetIssueFunc(ctx, number)
	}
	return &Issue{Number: number}, nil
}

func (m *MockClient) GetPullRequest(ctx context.Context, number int) (*PullRequest, error) {
	if m.GetPullRequestFunc != nil {
		return m.GetPullRequestFunc(ctx, number)
	}
	return &PullRequest{Number: number}, nil
}

func (m *MockClient) ListIssueComments(ctx context.Context, number int) ([]IssueComment, error) {
	if m.ListIssueCommentsFunc != nil {
		return m.ListIssueCommentsFunc(ctx, number)
	}
	return nil, nil
}

func (m *MockClient) ListReviews(ctx context.Context, number int) ([]Review, error) {
	if m.ListReviewsFunc != nil {
		return m.ListReviewsFunc(ctx, number)
	}
	return nil, nil
}

func (m *MockClient) ListPullFiles(ctx context.Context, number int) ([]ChangedFile, error) {
	if m.ListPullFilesFunc != nil {
		return m.ListPullFilesFunc(ctx, number)
	}
	return nil, nil
}

func (m *MockClient) GetUser(ctx context.Context, login string) (*User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, login)
	}
	return &User{Login: login}, nil
}

func (m *MockClient) GetCollaboratorPermission(ctx context.Context, login string) (string, error) {
	if m.GetCollaboratorPermissionFunc != nil {
		return m.GetCollaboratorPermissionFunc(ctx, login)
	}
	return "read", nil
}

func (m *MockClient) IsCollaborator(ctx context.Context, login string) (bool, error) {
	if m.IsCollaboratorFunc != nil {
		return m.IsCollaboratorFunc(ctx, login)
	}
	return false, nil
}

func (m *MockClient) GetBranch(ctx context.Context, name string) (*Branch, error) {
	if m.GetBranchFunc != nil {
		return m.GetBranchFunc(ctx, name)
	}
	return &Branch{Name: name}, nil
}

func (m *MockClient) DeleteBranch(ctx context.Context, name string) error {
	m.DeletedBranches = append(m.DeletedBranches, name)
	if m.DeleteBranchFunc != nil {
		return m.DeleteBranchFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) RenderedBody(ctx context.Context, kind BodyKind, number int, id int64) (string, error) {
	m.RenderedBodyCalls = append(m.RenderedBodyCalls, kind)
	if m.RenderedBodyFunc != nil {
		return m.RenderedBodyFunc(ctx, kind, number, id)
	}
	return "", nil
}

func (m *MockClient) CreateComment(ctx context.Context, number int, body string) (int64, error) {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, number, body)
	}
	return 1, nil
}

func (m *MockClient) UpdateComment(ctx context.Context, commentID int64, body string) error {
	if m.UpdateCommentFunc != nil {
		return m.UpdateCommentFunc(ctx, commentID, body)
	}
	return nil
}
