package app

import (
	"fmt"
	"strings"
)

// ContextDocument is one piece of owned content injected into a prompt, in
// store insertion order.
type ContextDocument struct {
	Type    string
	Name    string
	Content string
}

const crossDocumentPreamble = `You are SylliAI, an AI assistant specialized in analyzing course syllabi and related documents.
Analyze the following content and provide detailed, accurate answers based on the available information.
If information is not found in the documents, clearly state that.

Available Documents:`

const singleSyllabusPreamble = `You are SylliAI, an AI assistant specialized in analyzing course syllabi.
Based on the following syllabus, answer the user's question:`

// BuildCrossDocumentPrompt assembles the fixed preamble, one block per
// context document in the given order, and the literal user question.
// maxDocChars caps each document's contribution; 0 disables the cap.
func BuildCrossDocumentPrompt(docs []ContextDocument, question string, maxDocChars int) string {
	var b strings.Builder
	b.WriteString(crossDocumentPreamble)
	for _, doc := range docs {
		fmt.Fprintf(&b, "\n\nDocument Type: %s\nCourse: %s\nContent:\n%s",
			doc.Type, doc.Name, clip(doc.Content, maxDocChars))
	}
	fmt.Fprintf(&b, "\n\nUser Question: %s\nPlease provide a comprehensive answer based on the available documents:", question)
	return b.String()
}

// BuildSyllabusPrompt assembles the narrower single-syllabus prompt. Content
// pulled out of an uploaded file is labeled "Extracted Content"; inline text
// keeps the plain "Content" label.
func BuildSyllabusPrompt(courseName, content, question string, extracted bool, maxDocChars int) string {
	label := "Content"
	if extracted {
		label = "Extracted Content"
	}
	var b strings.Builder
	b.WriteString(singleSyllabusPreamble)
	fmt.Fprintf(&b, "\n\nSyllabus: %s\n%s:\n%s", courseName, label, clip(content, maxDocChars))
	fmt.Fprintf(&b, "\n\nUser Question: %s", question)
	return b.String()
}

// clip truncates s to max runes. Truncation is the only budgeting applied;
// the assembler never reorders or summarizes.
func clip(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
