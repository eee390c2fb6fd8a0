package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"
	"github.com/haierkeys/fast-note-offline-client/pkg/util"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// searchCachePayload 检索缓存的存储载荷
type searchCachePayload struct {
	NoteIDs []string `json:"noteIds"`
	// Semantic 结果是否来自语义排序
	Semantic bool `json:"semantic"`
}

// NoteSearch 检索笔记
// 语义排序至多尝试一次，失败回退到子串匹配
// 相同查询在缓存时长内直接复用结果
func (s *Service) NoteSearch(ctx context.Context, keyword string) ([]*domain.Note, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, xerrors.NewAppError(code.ErrorValidation,
			fmt.Errorf("search keyword is empty"))
	}

	queryHash := util.EncodeSHA256(fmt.Sprintf("search:%d:%s", s.UID(), strings.ToLower(keyword)))

	result, err, _ := s.searchGroup.Do(queryHash, func() (any, error) {
		if ids, ok := s.searchCacheLookup(ctx, queryHash); ok {
			return s.resolveNotes(ctx, ids), nil
		}

		var hits []*domain.Note
		semantic := false
		if s.Online() {
			// 在线读远端检索结果并刷新本地镜像
			candidates, err := s.store.SearchNotes(ctx, keyword)
			if err != nil {
				return nil, err
			}
			for _, note := range candidates {
				if err := s.d.NoteMirror(ctx, note); err != nil {
					s.logger.Warn("note mirror failed",
						zap.String("noteId", note.ID), zap.Error(err))
				}
			}
			hits = candidates
			if s.searcher != nil && s.searcher.Enabled() {
				ids, rankErr := s.searcher.Rank(ctx, keyword, candidates)
				if rankErr != nil {
					s.logger.Warn("semantic search unavailable, falling back",
						zap.String("keyword", keyword), zap.Error(rankErr))
				} else {
					hits = pickByID(candidates, ids)
					semantic = true
				}
			}
		} else {
			candidates, err := s.d.NoteList(ctx, s.UID(), domain.NoteFilter{})
			if err != nil {
				return nil, err
			}
			hits = substringFilter(candidates, keyword)
		}
		if !semantic {
			domain.SortNotes(hits)
		}

		s.searchCacheStore(ctx, queryHash, hits, semantic)
		return hits, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*domain.Note), nil
}

// cacheEntryExpired 到点即过期，与维护清理的判定边界一致
func cacheEntryExpired(entry *domain.CachedResponse, now time.Time) bool {
	return !now.Before(entry.ExpiresAt)
}

func (s *Service) searchCacheLookup(ctx context.Context, queryHash string) ([]string, bool) {
	entry, err := s.d.CacheGet(ctx, queryHash)
	if err != nil {
		return nil, false
	}
	if cacheEntryExpired(entry, time.Now()) {
		// 惰性清除过期条目
		if err := s.d.CacheDelete(ctx, queryHash); err != nil {
			s.logger.Warn("stale cache entry not removed", zap.Error(err))
		}
		return nil, false
	}
	var payload searchCachePayload
	if err := sonic.Unmarshal(entry.Payload, &payload); err != nil {
		return nil, false
	}
	return payload.NoteIDs, true
}

func (s *Service) searchCacheStore(ctx context.Context, queryHash string, hits []*domain.Note, semantic bool) {
	ids := make([]string, 0, len(hits))
	for _, n := range hits {
		ids = append(ids, n.ID)
	}
	raw, err := sonic.Marshal(searchCachePayload{NoteIDs: ids, Semantic: semantic})
	if err != nil {
		return
	}
	err = s.d.CachePut(ctx, &domain.CachedResponse{
		QueryHash: queryHash,
		Payload:   raw,
		ExpiresAt: time.Now().Add(s.searchCacheTTL),
	})
	if err != nil {
		s.logger.Warn("search result not cached", zap.Error(err))
	}
}

// resolveNotes 按缓存的ID顺序取回笔记，期间被删除的跳过
func (s *Service) resolveNotes(ctx context.Context, ids []string) []*domain.Note {
	notes := make([]*domain.Note, 0, len(ids))
	for _, id := range ids {
		note, err := s.d.NoteGet(ctx, id, s.UID())
		if err != nil || note.Deleted {
			continue
		}
		notes = append(notes, note)
	}
	return notes
}

func pickByID(notes []*domain.Note, ids []string) []*domain.Note {
	byID := make(map[string]*domain.Note, len(notes))
	for _, n := range notes {
		byID[n.ID] = n
	}
	out := make([]*domain.Note, 0, len(ids))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

func substringFilter(notes []*domain.Note, keyword string) []*domain.Note {
	lower := strings.ToLower(keyword)
	out := make([]*domain.Note, 0, len(notes))
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Title), lower) ||
			strings.Contains(strings.ToLower(n.Content), lower) {
			out = append(out, n)
		}
	}
	return out
}
