// Package importer loads a JSON corpus of documents and links into a
// document graph.
//
// The expected input format is:
//
//	{
//	  "documents": [{"url": "https://example.com", "content": "Title\nBody"}],
//	  "links":     [{"source": "https://example.com", "target": "https://example.com/about"}]
//	}
package importer

import (
	"encoding/json"
	"io"
	"io/ioutil"

	"github.com/google/uuid"
	"github.com/linksrus/rankengine/linkgraph/graph"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// GraphAPI defines the set of graph methods required for importing a corpus.
type GraphAPI interface {
	UpsertDocument(doc *graph.Document) error
	UpsertEdge(edge *graph.Edge) error
}

// Corpus is the on-disk representation of an importable document set.
type Corpus struct {
	Documents []CorpusDocument `json:"documents"`
	Links     []CorpusLink     `json:"links"`
}

// CorpusDocument describes a single document in a corpus.
type CorpusDocument struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// CorpusLink describes a directed link between two corpus documents,
// identified by their URLs.
type CorpusLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Stats summarizes the outcome of an import run.
type Stats struct {
	Documents    int
	Links        int
	SkippedLinks int
}

// Importer inserts corpora into a document graph.
type Importer struct {
	g      GraphAPI
	logger *logrus.Entry
}

// New returns an Importer that writes to g. If logger is nil, log output is
// discarded.
func New(g GraphAPI, logger *logrus.Entry) *Importer {
	if logger == nil {
		logger = logrus.NewEntry(&logrus.Logger{Out: ioutil.Discard})
	}
	return &Importer{g: g, logger: logger}
}

// Load decodes a JSON corpus from r and imports it.
func (imp *Importer) Load(r io.Reader) (Stats, error) {
	var corpus Corpus
	if err := json.NewDecoder(r).Decode(&corpus); err != nil {
		return Stats{}, xerrors.Errorf("decode corpus: %w", err)
	}
	return imp.Import(corpus)
}

// Import upserts all corpus documents and then links them together. Links
// whose endpoints are not part of the corpus or the graph are skipped.
func (imp *Importer) Import(corpus Corpus) (Stats, error) {
	var (
		stats    Stats
		urlToID  = make(map[string]uuid.UUID, len(corpus.Documents))
		imported = make(map[uuid.UUID]bool, len(corpus.Documents))
	)

	for _, cd := range corpus.Documents {
		doc := &graph.Document{URL: cd.URL, Content: cd.Content}
		if err := imp.g.UpsertDocument(doc); err != nil {
			return stats, xerrors.Errorf("import document %q: %w", cd.URL, err)
		}
		urlToID[doc.URL] = doc.ID
		if !imported[doc.ID] {
			imported[doc.ID] = true
			stats.Documents++
		}
	}

	for _, cl := range corpus.Links {
		src, srcOK := urlToID[cl.Source]
		dst, dstOK := urlToID[cl.Target]
		if !srcOK || !dstOK {
			imp.logger.WithFields(logrus.Fields{
				"source": cl.Source,
				"target": cl.Target,
			}).Warn("skipping link to or from unknown document")
			stats.SkippedLinks++
			continue
		}

		if err := imp.g.UpsertEdge(&graph.Edge{Src: src, Dst: dst}); err != nil {
			if xerrors.Is(err, graph.ErrUnknownEdgeLinks) {
				stats.SkippedLinks++
				continue
			}
			return stats, xerrors.Errorf("import link %q -> %q: %w", cl.Source, cl.Target, err)
		}
		stats.Links++
	}

	return stats, nil
}
