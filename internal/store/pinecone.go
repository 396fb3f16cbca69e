package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/katakuxiko/ragstream/internal/model"
)

// textKey — поле метаданных с текстом фрагмента в индексах, собранных LangChain
const textKey = "text"

// PineconeStore ищет по одному индексу Pinecone, по соединению на namespace
type PineconeStore struct {
	conns map[string]*pinecone.IndexConnection
}

func NewPineconeStore(ctx context.Context, apiKey, indexName string, namespaces []string) (*PineconeStore, error) {
	pc, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create pinecone client: %w", err)
	}

	idx, err := pc.DescribeIndex(ctx, indexName)
	if err != nil {
		return nil, fmt.Errorf("describe index %s: %w", indexName, err)
	}

	s := &PineconeStore{conns: make(map[string]*pinecone.IndexConnection, len(namespaces))}
	for _, ns := range namespaces {
		conn, err := pc.Index(pinecone.NewIndexConnParams{Host: idx.Host, Namespace: ns})
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("connect to namespace %s: %w", ns, err)
		}
		s.conns[ns] = conn
	}
	return s, nil
}

func (s *PineconeStore) Search(ctx context.Context, namespace string, vector []float32, k int) ([]model.Passage, error) {
	if k <= 0 {
		return nil, errInvalidTopK(k)
	}
	conn, ok := s.conns[namespace]
	if !ok {
		return nil, fmt.Errorf("namespace %q is not configured", namespace)
	}

	resp, err := conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(k),
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("query namespace %s: %w", namespace, err)
	}

	res := make([]model.Passage, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if m == nil || m.Vector == nil {
			continue
		}
		res = append(res, passageFromMatch(m.Vector.Id, m.Score, m.Vector.Metadata))
	}
	return res, nil
}

func (s *PineconeStore) Close() error {
	var errs []error
	for _, conn := range s.conns {
		errs = append(errs, conn.Close())
	}
	return errors.Join(errs...)
}

func passageFromMatch(id string, score float32, md *structpb.Struct) model.Passage {
	p := model.Passage{ID: id, Score: score}
	if md == nil {
		return p
	}

	fields := md.AsMap()
	if text, ok := fields[textKey].(string); ok {
		p.Content = text
		delete(fields, textKey)
	}
	if len(fields) > 0 {
		p.Metadata = fields
	}
	return p
}
