/*
Copyright 2025 Hare Krishna Rai

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package openapi retrieves GitHub's webhook OpenAPI document and turns it
// into parsed, $ref-free webhook payload schemas.
package openapi

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"
)

const (
	documentOwner = "octokit"
	documentRepo  = "openapi-webhooks"
	documentPath  = "packages/openapi-webhooks/generated/api.github.com.json"
)

// Client downloads the webhook OpenAPI document from octokit/openapi-webhooks.
type Client struct {
	client *github.Client
	ctx    context.Context
}

// NewClient creates a GitHub API client. A GITHUB_TOKEN in the environment
// is used for authentication; without one the client is rate limited.
func NewClient() *Client {
	ctx := context.Background()
	var client *github.Client

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		client = github.NewClient(tc)
	} else {
		client = github.NewClient(nil)
	}

	return &Client{
		client: client,
		ctx:    ctx,
	}
}

// FetchDocument downloads the OpenAPI document at the given ref (a branch
// name, tag or commit SHA) and parses it.
func (c *Client) FetchDocument(ref string) (*Document, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	rc, _, err := c.client.Repositories.DownloadContents(c.ctx, documentOwner, documentRepo, documentPath, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to download OpenAPI document at ref %q: %w", ref, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI document: %w", err)
	}

	return ParseDocument(data)
}
