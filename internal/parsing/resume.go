package parsing

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

var (
	resumeEmailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	resumePhonePattern = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	skillDelimiters    = regexp.MustCompile(`[,;|•\-\*]`)
	allCapsPrefix      = regexp.MustCompile(`^[A-Z\s]+$`)
)

// resumeSection names a section of a parsed resume
type resumeSection int

const (
	sectionNone resumeSection = iota
	sectionEducation
	sectionExperience
	sectionSkills
	sectionProjects
	sectionCertifications
	sectionAchievements
)

// sectionHeaders is checked in order; the first matching prefix wins.
var sectionHeaders = []struct {
	section  resumeSection
	prefixes []string
}{
	{sectionEducation, []string{"education", "academic", "qualification"}},
	{sectionExperience, []string{"experience", "work", "employment", "professional", "career"}},
	{sectionSkills, []string{"skill", "technical", "competenc"}},
	{sectionProjects, []string{"project", "portfolio", "work sample"}},
	{sectionCertifications, []string{"certification", "certificate"}},
	{sectionAchievements, []string{"achievement", "award", "honor"}},
}

// minEntryLength is the shortest experience or project line kept
const minEntryLength = 10

// ParseResumeStructure splits plain resume text into sections.
// Contact details are taken from the first email and phone number found anywhere in the text.
func ParseResumeStructure(text string) *types.ParsedResume {
	parsed := types.NewParsedResume()

	if m := resumeEmailPattern.FindString(text); m != "" {
		parsed.PersonalInfo.Email = m
	}
	if m := resumePhonePattern.FindString(text); m != "" {
		parsed.PersonalInfo.Phone = m
	}

	current := sectionNone
	var skillList []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if section, rest, ok := detectSectionHeader(line); ok {
			current = section
			// A header line can carry content after a colon, e.g. "Skills: Go, SQL".
			if rest == "" {
				continue
			}
			line = rest
		}

		switch current {
		case sectionNone:
			continue
		case sectionSkills:
			for _, s := range skillDelimiters.Split(line, -1) {
				s = strings.TrimSpace(s)
				if len(s) > 1 {
					skillList = append(skillList, s)
				}
			}
		case sectionEducation, sectionExperience, sectionProjects:
			if isHeaderLike(line) {
				continue
			}
			appendEntry(parsed, current, line)
		default:
			appendEntry(parsed, current, line)
		}
	}

	parsed.TechnicalSkills = uniqueOrdered(skillList)
	parsed.Experience = filterShort(parsed.Experience)
	parsed.Projects = filterShort(parsed.Projects)
	parsed.Normalize()

	return parsed
}

// detectSectionHeader reports whether line starts a new section. rest holds any content
// that follows a colon on the header line.
func detectSectionHeader(line string) (resumeSection, string, bool) {
	lower := strings.ToLower(line)
	for _, h := range sectionHeaders {
		for _, prefix := range h.prefixes {
			if !strings.HasPrefix(lower, prefix) {
				continue
			}
			rest := ""
			if idx := strings.Index(line, ":"); idx >= 0 {
				rest = strings.TrimSpace(line[idx+1:])
			} else if len(strings.Fields(line)) > 3 {
				// Long lines that merely start with a header word are content, not headers.
				return sectionNone, "", false
			}
			return h.section, rest, true
		}
	}
	return sectionNone, "", false
}

// isHeaderLike reports whether the first 20 characters are all capitals and spaces.
func isHeaderLike(line string) bool {
	prefix := line
	if len(prefix) > 20 {
		prefix = prefix[:20]
	}
	return allCapsPrefix.MatchString(prefix)
}

func appendEntry(r *types.ParsedResume, section resumeSection, line string) {
	switch section {
	case sectionEducation:
		r.Education = append(r.Education, line)
	case sectionExperience:
		r.Experience = append(r.Experience, line)
	case sectionProjects:
		r.Projects = append(r.Projects, line)
	case sectionCertifications:
		r.Certifications = append(r.Certifications, line)
	case sectionAchievements:
		r.Achievements = append(r.Achievements, line)
	}
}

func filterShort(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if len(e) > minEntryLength {
			out = append(out, e)
		}
	}
	return out
}

// uniqueOrdered deduplicates case-insensitively, keeping first occurrences in order.
func uniqueOrdered(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// LoadResume builds a ParsedResume from either parsed-resume JSON or plain resume text.
// It returns the resume together with the raw text used for text heuristics.
func LoadResume(data []byte) (*types.ParsedResume, string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			RawText string `json:"raw_text"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, "", &ParseError{Message: "invalid resume JSON", Cause: err}
		}
		r, err := types.DecodeParsedResume(trimmed)
		if err != nil {
			return nil, "", &ParseError{Message: "invalid resume JSON", Cause: err}
		}
		text := envelope.RawText
		if text == "" {
			text = ResumeText(r)
		}
		return r, text, nil
	}

	text := string(data)
	return ParseResumeStructure(text), text, nil
}

// ResumeText flattens a parsed resume back into plain text, one entry per line.
func ResumeText(r *types.ParsedResume) string {
	var sb strings.Builder
	write := func(lines ...string) {
		for _, l := range lines {
			if l == "" {
				continue
			}
			sb.WriteString(l)
			sb.WriteString("\n")
		}
	}
	write(r.PersonalInfo.Email, r.PersonalInfo.Phone)
	write(r.Education...)
	write(r.Experience...)
	write(strings.Join(r.TechnicalSkills, ", "))
	write(r.Projects...)
	write(r.Certifications...)
	write(r.Achievements...)
	return strings.TrimSpace(sb.String())
}
