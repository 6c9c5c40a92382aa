package model

// The execution judge is an external collaborator; this service only
// carries its static configuration: which languages it accepts and what
// its numeric status codes mean.

type JudgeLanguage struct {
	DisplayName string `json:"display_name"`
	JudgeID     int    `json:"judge_id"`
	EditorName  string `json:"editor_name"`
}

var JudgeLanguages = []JudgeLanguage{
	{DisplayName: "C++", JudgeID: 54, EditorName: "cpp"},
	{DisplayName: "Java", JudgeID: 62, EditorName: "java"},
}

func LanguageByName(displayName string) (JudgeLanguage, bool) {
	for _, l := range JudgeLanguages {
		if l.DisplayName == displayName {
			return l, true
		}
	}
	return JudgeLanguage{}, false
}

// JudgeStatusDescriptions maps the judge's status codes, starting at 1,
// to human-readable descriptions.
var JudgeStatusDescriptions = []string{
	"In Queue",
	"Processing",
	"Accepted",
	"Wrong Answer",
	"Time Limit Exceeded",
	"Compilation Error",
	"Runtime Error (SIGSEGV)",
	"Runtime Error (SIGXFSZ)",
	"Runtime Error (SIGFPE)",
	"Runtime Error (SIGABRT)",
	"Runtime Error (NZEC)",
	"Runtime Error (Other)",
	"Internal Error",
	"Exec Format Error",
}

func JudgeStatusDescription(code int) (string, bool) {
	if code < 1 || code > len(JudgeStatusDescriptions) {
		return "", false
	}
	return JudgeStatusDescriptions[code-1], true
}
