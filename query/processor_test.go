package query

import (
	"testing"

	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(ProcessorTestSuite))

func Test(t *testing.T) { gc.TestingT(t) }

type ProcessorTestSuite struct {
	p *Processor
}

func (s *ProcessorTestSuite) SetUpTest(c *gc.C) {
	p, err := NewProcessor(Config{})
	c.Assert(err, gc.IsNil)
	s.p = p
}

func (s *ProcessorTestSuite) TestTokenize(c *gc.C) {
	specs := []struct {
		input string
		exp   []string
	}{
		{input: "", exp: nil},
		{input: "   ", exp: nil},
		{input: "Kontak Kami", exp: []string{"kontak"}},
		{input: "harga-tiket, harga_tiket!", exp: []string{"harga", "tiket", "harga_tiket"}},
		{input: "Jadwal dan jadwal di Bandung 2024", exp: []string{"jadwal", "jadwal", "bandung", "2024"}},
		{input: "Café ÜBER", exp: []string{"café", "über"}},
	}

	for specIndex, spec := range specs {
		c.Logf("[spec %d] input: %q", specIndex, spec.input)
		got := s.p.Tokenize(spec.input)
		if spec.exp == nil {
			c.Assert(got, gc.HasLen, 0)
			continue
		}
		c.Assert(got, gc.DeepEquals, spec.exp)
	}
}

func (s *ProcessorTestSuite) TestCustomStopwords(c *gc.C) {
	p, err := NewProcessor(Config{Stopwords: []string{"The", "of"}})
	c.Assert(err, gc.IsNil)
	c.Assert(p.Tokenize("The Lord of the Rings"), gc.DeepEquals, []string{"lord", "rings"})

	p, err = NewProcessor(Config{Stopwords: []string{}})
	c.Assert(err, gc.IsNil)
	c.Assert(p.Tokenize("yang dan"), gc.DeepEquals, []string{"yang", "dan"})
}

func (s *ProcessorTestSuite) TestInvalidConfig(c *gc.C) {
	_, err := NewProcessor(Config{SimilarityCutoff: 1.5})
	c.Assert(err, gc.ErrorMatches, "(?s)query processor config validation failed: .*SimilarityCutoff.*")
}

func (s *ProcessorTestSuite) TestBuildVocabulary(c *gc.C) {
	vocab := s.p.BuildVocabulary(
		"Kontak\nHubungi kami untuk informasi",
		"Tentang\nInformasi tentang perusahaan",
	)
	c.Assert(vocab.Words(), gc.DeepEquals, []string{
		"hubungi", "informasi", "kontak", "perusahaan", "tentang",
	})
	c.Assert(vocab.Contains("kontak"), gc.Equals, true)
	c.Assert(vocab.Contains("kami"), gc.Equals, false)
	c.Assert(vocab.Len(), gc.Equals, 5)
}

func (s *ProcessorTestSuite) TestTypoCorrection(c *gc.C) {
	vocab := NewVocabulary([]string{"kontak", "tentang", "layanan"})

	res := s.p.Process("Kontaks", vocab)
	c.Assert(res.Tokens, gc.DeepEquals, []string{"kontaks"})
	c.Assert(res.Corrected, gc.DeepEquals, []string{"kontak"})
	c.Assert(res.Altered, gc.Equals, true)
	c.Assert(res.CorrectedQuery(), gc.Equals, "kontak")
}

func (s *ProcessorTestSuite) TestNoCloseMatch(c *gc.C) {
	vocab := NewVocabulary([]string{"kontak", "tentang", "layanan"})

	res := s.p.Process("zebra", vocab)
	c.Assert(res.Corrected, gc.DeepEquals, []string{"zebra"})
	c.Assert(res.Altered, gc.Equals, false)
}

func (s *ProcessorTestSuite) TestExactTokensAreKept(c *gc.C) {
	vocab := NewVocabulary([]string{"kontak", "kontakt"})

	res := s.p.Process("kontak layanan kontak", vocab)
	c.Assert(res.Corrected, gc.DeepEquals, []string{"kontak", "layanan", "kontak"})
	c.Assert(res.Altered, gc.Equals, false)
}

func (s *ProcessorTestSuite) TestTieBreakIsLexicographic(c *gc.C) {
	// "bat" and "cat" are equally similar to "xat".
	vocab := NewVocabulary([]string{"cat", "bat"})
	match, found := vocab.ClosestMatch("xat", 0.6)
	c.Assert(found, gc.Equals, true)
	c.Assert(match, gc.Equals, "bat")
}

func (s *ProcessorTestSuite) TestNilVocabulary(c *gc.C) {
	res := s.p.Process("kontaks", nil)
	c.Assert(res.Corrected, gc.DeepEquals, []string{"kontaks"})
	c.Assert(res.Altered, gc.Equals, false)
}

func (s *ProcessorTestSuite) TestEmptyQuery(c *gc.C) {
	res := s.p.Process("  yang  ", NewVocabulary([]string{"yang"}))
	c.Assert(res.Tokens, gc.HasLen, 0)
	c.Assert(res.Corrected, gc.HasLen, 0)
	c.Assert(res.CorrectedQuery(), gc.Equals, "")
}
