package es

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/conflicts"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

// MaxSearchDepth 深分页保护，超过后直接返回空页
const MaxSearchDepth = 400

type StoryRepo interface {
	SearchStories(ctx context.Context, keyword string, from, size int) ([]*StoryES, int64, error)
	GetLatestStories(ctx context.Context, from, size int) ([]*StoryES, error)
	GetStoryById(ctx context.Context, id uint64) (*StoryES, error)
	IndexStory(ctx context.Context, story *StoryES, version int64) error
	DeleteStory(ctx context.Context, id uint64) error
	UpdateAuthorNickname(ctx context.Context, authorID uint64, nickname string) error
}

type StoryRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewStoryRepo(client *elasticsearch.TypedClient) StoryRepo {
	return &StoryRepoImpl{client: client}
}

func (s *StoryRepoImpl) SearchStories(ctx context.Context, keyword string, from, size int) ([]*StoryES, int64, error) {
	if from >= MaxSearchDepth {
		return []*StoryES{}, 0, nil
	}

	req := s.client.Search().
		Index(StoryIndex).
		Query(&types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:  keyword,
				Fields: []string{"name^3", "description", "author_nickname", "categories"},
			},
		}).
		From(from).
		Size(size).
		TrackTotalHits(true)

	resp, err := req.Do(ctx)
	if err != nil {
		return nil, 0, err
	}

	stories := collectHits(resp.Hits.Hits)
	var total int64
	if resp.Hits.Total != nil {
		total = resp.Hits.Total.Value
	}
	return stories, total, nil
}

// GetLatestStories 最新收录的作品列表
func (s *StoryRepoImpl) GetLatestStories(ctx context.Context, from, size int) ([]*StoryES, error) {
	req := s.client.Search().
		Index(StoryIndex).
		Query(&types.Query{MatchAll: &types.MatchAllQuery{}}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"created_at": {Order: &sortorder.Desc},
		}}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

func (s *StoryRepoImpl) GetStoryById(ctx context.Context, id uint64) (*StoryES, error) {
	docID := strconv.FormatUint(id, 10)
	result, err := s.client.Get(StoryIndex, docID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil, nil
			}
		}
		return nil, err
	}
	if result.Source_ == nil {
		return nil, nil
	}
	var story StoryES
	if err = json.Unmarshal(result.Source_, &story); err != nil {
		return nil, err
	}
	if story.Categories == nil {
		story.Categories = make([]string, 0)
	}
	return &story, nil
}

func (s *StoryRepoImpl) IndexStory(ctx context.Context, story *StoryES, version int64) error {
	docID := strconv.FormatUint(story.ID, 10)

	_, err := s.client.Index(StoryIndex).
		Id(docID).
		Document(story).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *StoryRepoImpl) DeleteStory(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)

	_, err := s.client.Delete(StoryIndex, docID).Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil
			}
		}
		return err
	}

	return nil
}

// UpdateAuthorNickname 作者改昵称后批量刷新其名下文档
func (s *StoryRepoImpl) UpdateAuthorNickname(ctx context.Context, authorID uint64, nickname string) error {
	nicknameJSON, _ := json.Marshal(nickname)
	params := map[string]json.RawMessage{
		"new_nickname": nicknameJSON,
	}

	scriptSource := "ctx._source.author_nickname = params.new_nickname;"

	req := s.client.UpdateByQuery(StoryIndex).
		Query(&types.Query{
			Term: map[string]types.TermQuery{
				"author_id": {Value: authorID},
			},
		}).
		Script(&types.Script{
			Source: &scriptSource,
			Params: params,
		}).
		Conflicts(conflicts.Proceed)

	resp, err := req.Do(ctx)
	if err != nil {
		return err
	}
	if len(resp.Failures) != 0 {
		return fmt.Errorf("story index: update author nickname has failures, count: %d", len(resp.Failures))
	}
	return nil
}

func (s *StoryRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*StoryES, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}
	return collectHits(resp.Hits.Hits), nil
}

func collectHits(hits []types.Hit) []*StoryES {
	results := make([]*StoryES, 0, len(hits))
	for _, hit := range hits {
		if hit.Source_ == nil {
			continue
		}
		var story StoryES
		if err := json.Unmarshal(hit.Source_, &story); err != nil {
			continue
		}
		results = append(results, &story)
	}
	return results
}
