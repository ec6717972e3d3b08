package query

import (
	multierror "github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
)

// defaultStopwords is the closed list of Indonesian function words that are
// ignored when processing queries and building vocabularies.
var defaultStopwords = []string{
	"yang", "dan", "di", "ke", "untuk", "dengan", "adalah", "pada",
	"dari", "sebagai", "oleh", "dalam", "itu", "ini", "atau", "sudah",
	"akan", "karena", "juga", "bahwa", "maka", "dapat", "lebih",
	"saya", "kami", "mereka", "dia", "anda", "kita", "nya", "hal", "pun",
	"begitu", "saja", "masih", "tapi", "tetapi", "tidak", "belum", "serta",
	"guna", "bagi", "setiap", "seluruh", "semua", "lain", "bahkan",
}

// DefaultStopwords returns a copy of the default stopword list.
func DefaultStopwords() []string {
	return append([]string(nil), defaultStopwords...)
}

// Config encapsulates the settings for a query Processor.
type Config struct {
	// Stopwords lists the tokens that are dropped from queries and from
	// the vocabulary. A nil value selects DefaultStopwords; an empty,
	// non-nil slice disables stopword filtering.
	Stopwords []string

	// SimilarityCutoff is the minimum similarity ratio in the (0, 1] range
	// that a vocabulary entry must reach to replace a query token. If not
	// specified, a default value of 0.70 will be used instead.
	SimilarityCutoff float64
}

func (cfg *Config) validate() error {
	var err error
	if cfg.Stopwords == nil {
		cfg.Stopwords = DefaultStopwords()
	}

	if cfg.SimilarityCutoff < 0 || cfg.SimilarityCutoff > 1.0 {
		err = multierror.Append(err, xerrors.New("SimilarityCutoff must be in the range (0, 1]"))
	} else if cfg.SimilarityCutoff == 0 {
		cfg.SimilarityCutoff = 0.70
	}

	return err
}
