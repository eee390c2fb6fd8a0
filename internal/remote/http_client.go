package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"

	"github.com/bytedance/sonic"
	"github.com/juju/ratelimit"
	"go.uber.org/zap"
)

// response 远端服务的统一响应外层
type response struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// TokenProvider 每次请求前提供访问令牌
type TokenProvider interface {
	Token() (string, error)
}

// HTTPStoreConfig HTTP 客户端配置
type HTTPStoreConfig struct {
	BaseURL string
	// Timeout 单次请求超时
	Timeout time.Duration
	// RatePerSecond 出站请求限速，0 表示不限速
	RatePerSecond float64
}

// HTTPStore 基于 HTTP 的远端存储实现
type HTTPStore struct {
	baseURL string
	client  *http.Client
	tokens  TokenProvider
	bucket  *ratelimit.Bucket
	logger  *zap.Logger
}

var _ Store = (*HTTPStore)(nil)

// NewHTTPStore 创建远端存储客户端
func NewHTTPStore(c HTTPStoreConfig, tokens TokenProvider, lg *zap.Logger) *HTTPStore {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s := &HTTPStore{
		baseURL: c.BaseURL,
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  lg,
	}
	if c.RatePerSecond > 0 {
		s.bucket = ratelimit.NewBucketWithRate(c.RatePerSecond, int64(c.RatePerSecond)+1)
	}
	return s
}

// unavailable 网络层与服务端 5xx 统一归一为远端不可达
func unavailable(err error) error {
	return xerrors.NewAppError(code.ErrorRemoteUnavailable, err)
}

func (s *HTTPStore) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	if s.bucket != nil {
		s.bucket.Wait(1)
	}

	u := s.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			return xerrors.NewAppError(code.ErrorValidation, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return unavailable(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.tokens != nil {
		token, err := s.tokens.Token()
		if err != nil {
			return xerrors.NewAppError(code.ErrorAuthToken, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return unavailable(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return unavailable(err)
	}

	switch {
	case resp.StatusCode >= 500:
		return unavailable(fmt.Errorf("remote responded %d", resp.StatusCode))
	case resp.StatusCode == http.StatusUnauthorized:
		return xerrors.NewAppError(code.ErrorAuthToken, fmt.Errorf("remote responded %d", resp.StatusCode))
	case resp.StatusCode == http.StatusNotFound:
		return xerrors.NewAppError(code.ErrorNotFound, fmt.Errorf("remote responded %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return xerrors.NewAppError(code.ErrorValidation, fmt.Errorf("remote responded %d: %s", resp.StatusCode, raw))
	}

	var envelope response
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return unavailable(err)
	}
	if envelope.Code != 0 {
		return s.mapEnvelopeError(envelope)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := sonic.Unmarshal(envelope.Data, out); err != nil {
			return unavailable(err)
		}
	}
	return nil
}

func (s *HTTPStore) mapEnvelopeError(envelope response) error {
	cause := fmt.Errorf("remote error %d: %s", envelope.Code, envelope.Msg)
	switch envelope.Code {
	case code.ErrorNotFound.Code():
		return xerrors.NewAppError(code.ErrorNotFound, cause)
	case code.ErrorValidation.Code():
		return xerrors.NewAppError(code.ErrorValidation, cause)
	case code.ErrorAuthToken.Code():
		return xerrors.NewAppError(code.ErrorAuthToken, cause)
	}
	return unavailable(cause)
}

// Heartbeat 探测远端可达性
func (s *HTTPStore) Heartbeat(ctx context.Context) error {
	return s.do(ctx, http.MethodGet, "/api/heartbeat", nil, nil, nil)
}

// CreateNote 在远端创建笔记
func (s *HTTPStore) CreateNote(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	var out noteDTO
	if err := s.do(ctx, http.MethodPost, "/api/note", nil, noteToDTO(note), &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// UpdateNote 覆盖写入远端笔记
func (s *HTTPStore) UpdateNote(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	var out noteDTO
	if err := s.do(ctx, http.MethodPut, "/api/note", nil, noteToDTO(note), &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// DeleteNote 删除远端笔记
func (s *HTTPStore) DeleteNote(ctx context.Context, id string, permanent bool) error {
	query := url.Values{}
	query.Set("id", id)
	query.Set("permanent", strconv.FormatBool(permanent))
	return s.do(ctx, http.MethodDelete, "/api/note", query, nil, nil)
}

// RestoreNote 恢复远端回收站内的笔记
func (s *HTTPStore) RestoreNote(ctx context.Context, id string) (*domain.Note, error) {
	query := url.Values{}
	query.Set("id", id)
	var out noteDTO
	if err := s.do(ctx, http.MethodPost, "/api/note/restore", query, nil, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// GetNote 获取远端笔记
func (s *HTTPStore) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	query := url.Values{}
	query.Set("id", id)
	var out noteDTO
	if err := s.do(ctx, http.MethodGet, "/api/note", query, nil, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// ListNotes 获取远端笔记列表
func (s *HTTPStore) ListNotes(ctx context.Context, filter domain.NoteFilter) ([]*domain.Note, error) {
	query := url.Values{}
	if filter.Archived != nil {
		query.Set("archived", strconv.FormatBool(*filter.Archived))
	}
	if filter.LabelID != "" {
		query.Set("labelId", filter.LabelID)
	}
	if filter.Keyword != "" {
		query.Set("keyword", filter.Keyword)
	}
	if filter.IncludeDeleted {
		query.Set("includeDeleted", "true")
	}
	var out []*noteDTO
	if err := s.do(ctx, http.MethodGet, "/api/note/list", query, nil, &out); err != nil {
		return nil, err
	}
	notes := make([]*domain.Note, 0, len(out))
	for _, dto := range out {
		notes = append(notes, dto.toDomain())
	}
	return notes, nil
}

// SearchNotes 远端关键字检索
func (s *HTTPStore) SearchNotes(ctx context.Context, keyword string) ([]*domain.Note, error) {
	query := url.Values{}
	query.Set("keyword", keyword)
	var out []*noteDTO
	if err := s.do(ctx, http.MethodGet, "/api/note/search", query, nil, &out); err != nil {
		return nil, err
	}
	notes := make([]*domain.Note, 0, len(out))
	for _, dto := range out {
		notes = append(notes, dto.toDomain())
	}
	return notes, nil
}

// CreateLabel 在远端创建标签
func (s *HTTPStore) CreateLabel(ctx context.Context, label *domain.Label) (*domain.Label, error) {
	var out labelDTO
	if err := s.do(ctx, http.MethodPost, "/api/label", nil, labelToDTO(label), &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// UpdateLabel 覆盖写入远端标签
func (s *HTTPStore) UpdateLabel(ctx context.Context, label *domain.Label) (*domain.Label, error) {
	var out labelDTO
	if err := s.do(ctx, http.MethodPut, "/api/label", nil, labelToDTO(label), &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// DeleteLabel 删除远端标签
func (s *HTTPStore) DeleteLabel(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", id)
	return s.do(ctx, http.MethodDelete, "/api/label", query, nil, nil)
}

// ListLabels 获取远端标签列表
func (s *HTTPStore) ListLabels(ctx context.Context) ([]*domain.Label, error) {
	var out []*labelDTO
	if err := s.do(ctx, http.MethodGet, "/api/label/list", nil, nil, &out); err != nil {
		return nil, err
	}
	labels := make([]*domain.Label, 0, len(out))
	for _, dto := range out {
		labels = append(labels, dto.toDomain())
	}
	return labels, nil
}

// AttachLabel 在远端建立关联
func (s *HTTPStore) AttachLabel(ctx context.Context, link *domain.NoteLabel) (*domain.NoteLabel, error) {
	var out noteLabelDTO
	if err := s.do(ctx, http.MethodPost, "/api/note-label", nil, noteLabelToDTO(link), &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// DetachLabel 在远端解除关联
func (s *HTTPStore) DetachLabel(ctx context.Context, noteID, labelID string) error {
	query := url.Values{}
	query.Set("noteId", noteID)
	query.Set("labelId", labelID)
	return s.do(ctx, http.MethodDelete, "/api/note-label", query, nil, nil)
}

// ListNoteLabels 获取远端笔记的关联列表
func (s *HTTPStore) ListNoteLabels(ctx context.Context, noteID string) ([]*domain.NoteLabel, error) {
	query := url.Values{}
	query.Set("noteId", noteID)
	var out []*noteLabelDTO
	if err := s.do(ctx, http.MethodGet, "/api/note-label/list", query, nil, &out); err != nil {
		return nil, err
	}
	links := make([]*domain.NoteLabel, 0, len(out))
	for _, dto := range out {
		links = append(links, dto.toDomain())
	}
	return links, nil
}
