package mktree

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type CodeBlock struct {
	Lang    string
	Content string
}

func ExtractCodeBlocks(source []byte) ([]CodeBlock, error) {
	var blocks []CodeBlock
	parser := goldmark.DefaultParser()
	root := parser.Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fencedCodeBlock, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var block CodeBlock
		if fencedCodeBlock.Info != nil {
			block.Lang = string(fencedCodeBlock.Info.Text(source))
		}

		var content bytes.Buffer
		lines := fencedCodeBlock.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}
		block.Content = content.String()

		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}

	return blocks, nil
}

// ExtractStructure returns the tree held in a markdown reply. The first
// fenced block drawn with tree connectors wins, then the first block that
// names a folder. Text without fenced blocks is returned unchanged.
func ExtractStructure(content string) string {
	if !strings.Contains(content, "```") && !strings.Contains(content, "~~~") {
		return content
	}
	blocks, err := ExtractCodeBlocks([]byte(content))
	if err != nil || len(blocks) == 0 {
		return content
	}

	for _, b := range blocks {
		if DetectEncoding(strings.Split(b.Content, "\n")) == EncodingConnector {
			return b.Content
		}
	}
	for _, b := range blocks {
		for _, line := range strings.Split(b.Content, "\n") {
			if strings.HasSuffix(strings.TrimSpace(line), "/") {
				return b.Content
			}
		}
	}
	return blocks[0].Content
}
