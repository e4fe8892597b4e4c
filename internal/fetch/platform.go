package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

// Known job boards
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

type platformProfile struct {
	platform Platform
	hosts    []string
	content  []string
	noise    []string
}

var platformProfiles = []platformProfile{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply"},
	},
	{
		platform: PlatformLever,
		hosts:    []string{"lever.co"},
		content:  []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:    []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	{
		platform: PlatformWorkday,
		hosts:    []string{"workday.com", "myworkdayjobs.com"},
		content:  []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		noise:    []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	{
		platform: PlatformAshby,
		hosts:    []string{"ashbyhq.com"},
		content:  []string{"[class*='_descriptionText']", "#overview", "main"},
		noise:    []string{"[class*='_applicationForm']"},
	},
}

// commonNoise is removed from every job page
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	".eeo-statement",
	".eeo-section",
	".legal-disclosure",
	".self-identification",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	if p := profileFor(urlStr); p != nil {
		return p.platform
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors for the board hosting urlStr.
func PlatformContentSelectors(urlStr string) []string {
	if p := profileFor(urlStr); p != nil {
		return p.content
	}
	return JobPostingSelectors()
}

// PlatformNoiseSelectors returns the selectors stripped from pages on the board hosting urlStr.
func PlatformNoiseSelectors(urlStr string) []string {
	noise := append([]string(nil), commonNoise...)
	if p := profileFor(urlStr); p != nil {
		noise = append(noise, p.noise...)
	}
	return noise
}

func profileFor(urlStr string) *platformProfile {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil
	}
	host := strings.ToLower(parsed.Hostname())
	for i := range platformProfiles {
		for _, h := range platformProfiles[i].hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return &platformProfiles[i]
			}
		}
	}
	return nil
}
