package llm

import "regexp"

// Prompt templates use {{var}} placeholders. Unresolved placeholders are left
// verbatim rather than erroring, so a missing variable degrades the prompt
// instead of killing the batch.

const articleListPrompt = `You are an assistant that extracts article listings from blog page text.
The text below comes from the homepage of "{{site_name}}". Links appear inline as [title](url) tokens.
Identify the individual blog articles on the page and respond with JSON only:
{"articles":[{"title":"...","url":"...","published_at":"YYYY-MM-DD or null"}]}
Use the exact url from the [title](url) token. Set published_at to null when no date is visible.
Ignore navigation, category, and author links. Return at most 20 articles.`

const articleAnalysisPrompt = `You are an analyst tracking the Model Context Protocol (MCP) ecosystem.
Judge whether the article "{{title}}" is genuinely about MCP: the protocol itself, MCP servers or
clients, tooling, integrations, or adoption. Passing mentions do not count.
Respond with JSON only:
{"is_mcp_related":true|false,"summary":"2-3 sentence summary","key_points":["3 to 5 short bullet points"],"quality_score":0.0-1.0,"relevance_reason":"one sentence"}
quality_score reflects depth, originality, and technical substance.`

const linkedinAnalysisPrompt = `You are an analyst tracking the Model Context Protocol (MCP) ecosystem.
The text below is a LinkedIn post by {{author}}. Judge whether it is genuinely about MCP:
the protocol, MCP servers or clients, tooling, integrations, or adoption news.
Respond with JSON only:
{"is_relevant":true|false,"summary":"1-2 sentence summary","key_points":["3 to 5 short bullet points"],"quality_score":0.0-1.0,"relevance_reason":"one sentence"}`

const redditAnalysisPrompt = `You are an analyst tracking the Model Context Protocol (MCP) ecosystem.
The text below is a Reddit post titled "{{title}}". Judge whether it is genuinely about MCP:
the protocol, MCP servers or clients, tooling, integrations, or community experience with them.
Respond with JSON only:
{"is_relevant":true|false,"summary":"1-2 sentence summary","key_points":["3 to 5 short bullet points"],"quality_score":0.0-1.0,"relevance_reason":"one sentence"}`

var placeholderExpr = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// RenderPrompt substitutes {{var}} placeholders from vars, leaving unknown
// placeholders untouched.
func RenderPrompt(tpl string, vars map[string]string) string {
	return placeholderExpr.ReplaceAllStringFunc(tpl, func(match string) string {
		name := placeholderExpr.FindStringSubmatch(match)[1]
		if v, ok := vars[name]; ok {
			return v
		}
		return match
	})
}
