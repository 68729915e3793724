package sink

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNotionClient implements notion.Client for sink tests.
type fakeNotionClient struct {
	existing *notionapi.Page
	queryErr error

	created *notionapi.PageCreateRequest
	updated *notionapi.PageUpdateRequest
}

func (f *fakeNotionClient) FindPageByEmail(_ context.Context, _, _ string) (*notionapi.Page, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.existing, nil
}

func (f *fakeNotionClient) CreatePage(_ context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	f.created = req
	return &notionapi.Page{ID: "new-page"}, nil
}

func (f *fakeNotionClient) UpdatePage(_ context.Context, _ string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	f.updated = req
	return &notionapi.Page{ID: "page-1"}, nil
}

func TestNotionSinkCreatesNewPage(t *testing.T) {
	fc := &fakeNotionClient{}
	s := NewNotionSink(fc, "db-123")

	err := s.Deliver(context.Background(), testLead())
	require.NoError(t, err)

	require.NotNil(t, fc.created)
	assert.Nil(t, fc.updated)
	assert.Equal(t, notionapi.DatabaseID("db-123"), fc.created.Parent.DatabaseID)
	assert.Equal(t, "executive", fc.created.Properties["Tier"].(notionapi.SelectProperty).Select.Name)
	assert.InDelta(t, 10.0, fc.created.Properties["Score"].(notionapi.NumberProperty).Number, 0.001)
}

func TestNotionSinkUpdatesExistingPage(t *testing.T) {
	fc := &fakeNotionClient{existing: &notionapi.Page{ID: "page-1"}}
	s := NewNotionSink(fc, "db-123")

	err := s.Deliver(context.Background(), testLead())
	require.NoError(t, err)

	assert.Nil(t, fc.created)
	require.NotNil(t, fc.updated)
	assert.Equal(t, "executive", fc.updated.Properties["Tier"].(notionapi.SelectProperty).Select.Name)
}

func TestNotionSinkLookupError(t *testing.T) {
	fc := &fakeNotionClient{queryErr: assert.AnError}
	s := NewNotionSink(fc, "db-123")

	err := s.Deliver(context.Background(), testLead())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "notion lookup")
}
