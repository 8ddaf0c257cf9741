package content

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultContent []byte

type Info struct {
	Name        string `yaml:"name" json:"name"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description" json:"description"`
}

type Social struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

type Profile struct {
	Name      string   `yaml:"name" json:"name"`
	Title     string   `yaml:"title" json:"title"`
	Bio       string   `yaml:"bio" json:"bio"`
	AvatarURL string   `yaml:"avatar_url" json:"avatarUrl"`
	Location  string   `yaml:"location" json:"location,omitempty"`
	Socials   []Social `yaml:"socials" json:"socials"`
}

type Link struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	URL         string `yaml:"url" json:"url"`
	Icon        string `yaml:"icon" json:"icon"`
}

type Project struct {
	Title        string   `yaml:"title" json:"title"`
	Description  string   `yaml:"description" json:"description"`
	Technologies []string `yaml:"technologies" json:"technologies"`
	URL          string   `yaml:"url" json:"url"`
	Icon         string   `yaml:"icon" json:"icon"`
}

type BlogPost struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Date        string `yaml:"date" json:"date"`
	ReadTime    string `yaml:"read_time" json:"readTime"`
	ImageURL    string `yaml:"image_url" json:"imageUrl"`
	URL         string `yaml:"url" json:"url"`
}

// Content is the whole site document. Persona, when set, replaces the
// chatbot's built-in system prompt.
type Content struct {
	Info     Info       `yaml:"info"`
	Persona  string     `yaml:"persona"`
	Profile  Profile    `yaml:"profile"`
	Links    []Link     `yaml:"links"`
	Projects []Project  `yaml:"projects"`
	Blogs    []BlogPost `yaml:"blogs"`
}

// Service serves site content. Blog posts may be enriched in place by
// RefreshPreviews, so reads take a lock.
type Service struct {
	mu      sync.RWMutex
	content Content
}

// Load reads the YAML document at path, or the built-in content when path
// is empty.
func Load(path string) (*Service, error) {
	raw := defaultContent
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read content file: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Service, error) {
	var c Content
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	if c.Profile.Name == "" {
		return nil, fmt.Errorf("content has no profile name")
	}
	if c.Info.Name == "" {
		c.Info.Name = c.Profile.Name + " Portfolio"
	}
	if c.Info.Version == "" {
		c.Info.Version = "1.0.0"
	}
	return &Service{content: c}, nil
}

func (s *Service) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content.Info
}

func (s *Service) Persona() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content.Persona
}

func (s *Service) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.content.Profile
	p.Socials = append([]Social{}, p.Socials...)
	return p
}

func (s *Service) Links() []Link {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Link{}, s.content.Links...)
}

func (s *Service) Projects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Project, len(s.content.Projects))
	for i, p := range s.content.Projects {
		p.Technologies = append([]string{}, p.Technologies...)
		out[i] = p
	}
	return out
}

func (s *Service) BlogPosts() []BlogPost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]BlogPost{}, s.content.Blogs...)
}
