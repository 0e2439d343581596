package jsoncfg

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StyleDescriptor is the structured form of the style block prepended to every prompt.
type StyleDescriptor struct {
	Name        string   `json:"name"`
	Medium      string   `json:"medium"`
	Palette     []string `json:"palette"`
	Textures    []string `json:"textures"`
	Mood        string   `json:"mood"`
	Composition string   `json:"composition"`
	Avoid       []string `json:"avoid"`
}

// DefaultStyle is used when neither a plain-text style nor a descriptor file is configured.
var DefaultStyle = StyleDescriptor{
	Name:        "banksy",
	Medium:      "stencil street art spray-painted on an urban wall",
	Palette:     []string{"black", "white", "a single red accent"},
	Textures:    []string{"weathered brick", "paint drips", "gritty concrete"},
	Mood:        "satirical, poignant and understated",
	Composition: "one bold subject with generous negative space",
	Avoid:       []string{"photorealism", "smooth gradients", "visual clutter", "text or signatures"},
}

// Validate ensures the descriptor can be rendered into a meaningful style line.
func (s StyleDescriptor) Validate() error {
	if strings.TrimSpace(s.Name) == "" && strings.TrimSpace(s.Medium) == "" {
		return fmt.Errorf("style descriptor needs a name or a medium")
	}
	return nil
}

// Render converts the descriptor into a single paragraph for text-to-image models.
func (s StyleDescriptor) Render() string {
	var parts []string

	name := strings.TrimSpace(s.Name)
	medium := strings.TrimSpace(s.Medium)
	switch {
	case name != "" && medium != "":
		parts = append(parts, fmt.Sprintf("Create the image in the style of %s: %s.", cases.Title(language.English).String(name), medium))
	case name != "":
		parts = append(parts, fmt.Sprintf("Create the image in the style of %s.", cases.Title(language.English).String(name)))
	case medium != "":
		parts = append(parts, fmt.Sprintf("Create the image as %s.", medium))
	}
	if palette := cleanList(s.Palette); len(palette) > 0 {
		parts = append(parts, "Palette: "+strings.Join(palette, ", ")+".")
	}
	if textures := cleanList(s.Textures); len(textures) > 0 {
		parts = append(parts, "Textures: "+strings.Join(textures, ", ")+".")
	}
	if mood := strings.TrimSpace(s.Mood); mood != "" {
		parts = append(parts, "Mood: "+mood+".")
	}
	if comp := strings.TrimSpace(s.Composition); comp != "" {
		parts = append(parts, "Composition: "+comp+".")
	}
	if avoid := cleanList(s.Avoid); len(avoid) > 0 {
		parts = append(parts, "Avoid: "+strings.Join(avoid, ", ")+".")
	}
	return strings.Join(parts, " ")
}

// LoadStyle resolves the style block. Plain text wins over a descriptor file,
// and the built-in descriptor is used when neither is set.
func LoadStyle(plainText, descriptorPath string) (string, error) {
	if text := strings.TrimSpace(plainText); text != "" {
		return text, nil
	}
	descriptorPath = strings.TrimSpace(descriptorPath)
	if descriptorPath == "" {
		return DefaultStyle.Render(), nil
	}
	raw, err := os.ReadFile(descriptorPath)
	if err != nil {
		return "", fmt.Errorf("style descriptor: %w", err)
	}
	var desc StyleDescriptor
	if err := json.Unmarshal(raw, &desc); err != nil {
		return "", fmt.Errorf("style descriptor: decode %s: %w", descriptorPath, err)
	}
	if err := desc.Validate(); err != nil {
		return "", err
	}
	return desc.Render(), nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
