package services

import (
	"strings"
	"unicode/utf8"
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText implements TextChunker. Paragraphs are packed into chunks of at most
// maxChunkSize bytes; oversized paragraphs are split by sentence. Each new chunk
// starts with the last overlap runes of the previous one.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	p := &chunkPacker{maxSize: maxChunkSize, overlap: overlap}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			p.add(para, "\n\n")
			continue
		}

		for _, sentence := range splitIntoSentences(para) {
			p.add(sentence, " ")
		}
	}

	return p.finish()
}

type chunkPacker struct {
	maxSize int
	overlap int
	chunks  []string
	current strings.Builder
}

func (p *chunkPacker) add(piece, sep string) {
	if p.current.Len() > 0 && p.current.Len()+len(piece)+len(sep) > p.maxSize {
		prev := p.current.String()
		p.chunks = append(p.chunks, prev)
		p.current.Reset()

		if tail := getLastNChars(prev, p.overlap); tail != "" {
			p.current.WriteString(tail)
			p.current.WriteString(sep)
		}
	}

	if p.current.Len() > 0 && !strings.HasSuffix(p.current.String(), sep) {
		p.current.WriteString(sep)
	}
	p.current.WriteString(piece)
}

func (p *chunkPacker) finish() []string {
	if p.current.Len() > 0 {
		p.chunks = append(p.chunks, p.current.String())
	}
	return p.chunks
}

func splitIntoSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var result []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

func getLastNChars(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
