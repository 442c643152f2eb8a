// Package seed provides the built-in sample posts shown on an empty feed.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vytor/chessfeed/internal/models"
)

//go:embed posts.yaml
var defaultPosts []byte

type file struct {
	Posts []models.Post `yaml:"posts"`
}

// Default returns the embedded sample posts.
func Default() ([]models.Post, error) {
	return Parse(defaultPosts)
}

// Load reads posts from path, or the embedded set when path is empty.
func Load(path string) ([]models.Post, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	posts, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return posts, nil
}

// Parse decodes a posts document. Every post needs a username and a position.
func Parse(raw []byte) ([]models.Post, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("seed posts: %w", err)
	}
	for i, p := range f.Posts {
		if p.Username == "" {
			return nil, fmt.Errorf("seed posts: post %d has no username", i)
		}
		if p.FEN == "" {
			f.Posts[i].FEN = "start"
		}
	}
	return f.Posts, nil
}
