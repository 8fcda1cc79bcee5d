package survey

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// HeaderMap 问卷字段名到 CSV 表头的映射
//
// 方向为 字段 → 表头：同一个表头可以喂给多个字段
// （social_media_usage 和 info_source_social 都来自 Q012[SQ001]）。
type HeaderMap map[string]string

// defaultHeaderMap LimeSurvey 导出文件的表头映射
var defaultHeaderMap = HeaderMap{
	"location":                 "Q00. In welchem Kiez wohnen Sie?",
	"age_group":                "Q001. Wie alt sind Sie?",
	"household_size":           "Q002. Wie viele Personen leben (inkl. Ihnen) in Ihrem Haushalt?",
	"satisfaction":             "Q003. Wie zufrieden sind Sie mit dem Leben in Ihrem Kiez?",
	"future_outlook":           "Q005. Wie blicken Sie in die Zukunft Ihres Kiezes?",
	"topics_housing":           "Q004[SQ001]. Welche Themen beschäftigen Sie aktuell am meisten? [Wohnen / Mieten]",
	"topics_security":          "Q004[SQ002]. Welche Themen beschäftigen Sie aktuell am meisten? [Sicherheit]",
	"topics_education":         "Q004[SQ003]. Welche Themen beschäftigen Sie aktuell am meisten? [Bildung / Schule]",
	"topics_traffic":           "Q004[SQ004]. Welche Themen beschäftigen Sie aktuell am meisten? [Verkehr]",
	"topics_environment":       "Q004[SQ005]. Welche Themen beschäftigen Sie aktuell am meisten? [Umwelt]",
	"topics_community":         "Q004[SQ006]. Welche Themen beschäftigen Sie aktuell am meisten? [Nachbarschaftliches Miteinander]",
	"social_media_usage":       "Q012[SQ001]. Wie informieren Sie sich über aktuelle Entwicklungen im Bezirk? [Soziale Medien]",
	"facebook":                 "Q013[SQ001]. Welche sozialen Medien nutzen Sie? [Facebook]",
	"instagram":                "Q013[SQ002]. Welche sozialen Medien nutzen Sie? [Instagram]",
	"tiktok":                   "Q013[SQ003]. Welche sozialen Medien nutzen Sie? [TikTok]",
	"youtube":                  "Q013[SQ004]. Welche sozialen Medien nutzen Sie? [YouTube]",
	"whatsapp":                 "Q013[SQ005]. Welche sozialen Medien nutzen Sie? [WhatsApp]",
	"info_source_social":       "Q012[SQ001]. Wie informieren Sie sich über aktuelle Entwicklungen im Bezirk? [Soziale Medien]",
	"info_source_print":        "Q012[SQ003]. Wie informieren Sie sich über aktuelle Entwicklungen im Bezirk? [Zeitung/Print-Medien]",
	"info_source_tv":           "Q012[SQ004]. Wie informieren Sie sich über aktuelle Entwicklungen im Bezirk? [Fernsehen/TV]",
	"info_source_newsletter":   "Q012[SQ006]. Wie informieren Sie sich über aktuelle Entwicklungen im Bezirk? [Newsletter]",
	"info_source_events":       "Q012[SQ007]. Wie informieren Sie sich über aktuelle Entwicklungen im Bezirk? [Informationsveranstaltung]",
	"political_representation": "Q007. Wie stark fühlen Sie sich im Bezirk politisch vertreten?",
	"kiezmacher_known":         `Q011. Haben Sie schon einmal etwas von den "Kiezmachern" gehört?`,
	"engagement_wish":          "Q009. Würden Sie sich gerne stärker bei lokalen Themen einbringen?",
	"future_wishes":            "Q010. Was wünschen Sie sich für die Zukunft in Ihrem Kiez?",
}

// DefaultHeaderMap 返回内置表头映射的副本
func DefaultHeaderMap() HeaderMap {
	m := make(HeaderMap, len(defaultHeaderMap))
	for k, v := range defaultHeaderMap {
		m[k] = v
	}
	return m
}

// LoadHeaderMap 从 YAML 文件加载表头映射
//
// 文件内容为 字段名: 表头 的扁平映射，缺失的字段回落到内置默认值。
func LoadHeaderMap(path string) (HeaderMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read header map: %w", err)
	}
	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse header map: %w", err)
	}

	m := DefaultHeaderMap()
	for field, header := range overrides {
		if _, ok := m[field]; !ok {
			return nil, fmt.Errorf("unknown survey field in header map: %s", field)
		}
		m[field] = header
	}
	return m, nil
}
