// Package search maintains the Elasticsearch index of posts and runs
// full-text queries over it. Indexing is best-effort: a search outage
// never fails a user's write, the document just catches up on the next
// reindex.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	es8 "github.com/elastic/go-elasticsearch/v8"

	"chronicle/models"
)

type Index struct {
	client *es8.Client
	name   string
}

func New(esURL, name string) (*Index, error) {
	client, err := es8.NewClient(es8.Config{Addresses: []string{esURL}, Transport: &http.Transport{}})
	if err != nil {
		return nil, err
	}
	return &Index{client: client, name: name}, nil
}

// EnsureIndex creates the index with its mapping; if it already exists
// ES answers 400, which is fine to ignore.
func (ix *Index) EnsureIndex(ctx context.Context) error {
	mapping := `{
	  "mappings": {
	    "properties": {
	      "title":              {"type":"text"},
	      "text":               {"type":"text"},
	      "author":             {"type":"keyword"},
	      "is_published":       {"type":"boolean"},
	      "pub_date":           {"type":"date"},
	      "category_published": {"type":"boolean"}
	    }
	  }
	}`
	res, err := ix.client.Indices.Create(ix.name, ix.client.Indices.Create.WithBody(bytes.NewBufferString(mapping)))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return nil
}

// IndexPost writes the post's document, denormalizing the visibility
// fields so queries can filter without touching the database.
func (ix *Index) IndexPost(ctx context.Context, p *models.Post) error {
	doc := map[string]any{
		"id":                 p.ID,
		"title":              p.Title,
		"text":               p.Text,
		"is_published":       p.IsPublished,
		"pub_date":           p.PubDate.UTC().Format(time.RFC3339),
		"category_published": p.Category == nil || p.Category.IsPublished,
	}
	if p.Author != nil {
		doc["author"] = p.Author.Username
	}

	b, _ := json.Marshal(doc)
	res, err := ix.client.Index(ix.name, bytes.NewReader(b),
		ix.client.Index.WithDocumentID(strconv.FormatInt(p.ID, 10)))
	if err != nil {
		return err
	}
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	return nil
}

// DeletePost removes the post's document.
func (ix *Index) DeletePost(ctx context.Context, id int64) error {
	res, err := ix.client.Delete(ix.name, strconv.FormatInt(id, 10))
	if err != nil {
		return err
	}
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	return nil
}

// Search runs a multi_match over title and text, filtered to posts that
// are live at now — the same rule the visibility policy applies in SQL —
// and returns matching post ids, best score first.
func (ix *Index) Search(ctx context.Context, q string, now time.Time, size int) ([]int64, error) {
	body := map[string]any{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title", "text"},
					},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"is_published": true}},
					map[string]any{"term": map[string]any{"category_published": true}},
					map[string]any{"range": map[string]any{
						"pub_date": map[string]any{"lte": now.UTC().Format(time.RFC3339)},
					}},
				},
			},
		},
	}
	b, _ := json.Marshal(body)

	res, err := ix.client.Search(
		ix.client.Search.WithContext(ctx),
		ix.client.Search.WithIndex(ix.name),
		ix.client.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var out struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]int64, 0, len(out.Hits.Hits))
	for _, hit := range out.Hits.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
