// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ManifestInvalidId Id = iota + 1
	MissingEnvFileId
	ValidationFailedId
	ArtifactCorruptId
	ApiKeyMissingId
	AuthFailedId
	InsufficientCreditsId
	AppIdMissingId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to look up the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation pages covering this issue
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	manifestInvalidIssue = &Issue{
		id: ManifestInvalidId,
		mdMsg: `
# Invalid agent manifest!

Your agent.yaml is missing or does not match the manifest schema.

## Required fields:
- name (lowercase letters, digits, hyphens)
- display_name, description, author, license
- metadata.version

An agent must also declare at least one of: an entrypoint, an a2a
service, a rest entry, or a ui path.

## Things you can try:
- Scaffold a fresh manifest next to your code:
~~~
$ pixell init my-agent
~~~

- Check every finding at once:
~~~
$ pixell validate
~~~

## Example agent.yaml:
~~~yaml
version: "1.0"
name: my-agent
display_name: My Agent
description: Answers questions about my data
author: Me <me@example.com>
license: MIT
entrypoint: src.main:handler
metadata:
  version: "0.1.0"
~~~`,
		docLinks: []HttpLink{"https://docs.pixell.global/manifest"},
	}

	missingEnvFileIssue = &Issue{
		id: MissingEnvFileId,
		mdMsg: `
# Missing required .env file!

Every agent project must carry a .env file at its root. The file is
packaged byte for byte and the runner refuses to start without it.

## Things you can try:
- Create one, even if your agent needs no variables:
~~~
$ touch .env
~~~

- Or declare the variables your agent reads:
~~~
API_KEY=placeholder
MODEL=gpt-4
~~~

Values are never interpolated; what you write is what the agent sees.`,
		docLinks: []HttpLink{"https://docs.pixell.global/environment"},
	}

	validationFailedIssue = &Issue{
		id: ValidationFailedId,
		mdMsg: `
# Validation failed!

The project does not validate against its manifest, so the build was
stopped before packaging.

## Common causes:
- A surface module named in agent.yaml does not exist on disk
  (a2a.service, rest.entry)
- The ui path is missing or is a file
- The entrypoint module was moved or renamed

## Things you can try:
- See every error and warning in one pass:
~~~
$ pixell validate
~~~

- Module references use dotted paths relative to the project root:
~~~yaml
rest:
  entry: src.rest.index:mount   # expects src/rest/index.py
~~~`,
		docLinks: []HttpLink{"https://docs.pixell.global/validation"},
	}

	artifactCorruptIssue = &Issue{
		id: ArtifactCorruptId,
		mdMsg: `
# Artifact is corrupt!

The .apkg file could not be read, or its deploy.json descriptor is
missing or malformed. This usually means the file was truncated in
transit or was produced by something other than pixell.

## Things you can try:
- Rebuild the artifact from the project:
~~~
$ pixell build
~~~

- Check what is actually inside it:
~~~
$ pixell inspect my-agent-0.1.0.apkg
~~~`,
		docLinks: []HttpLink{"https://docs.pixell.global/apkg-format"},
	}

	apiKeyMissingIssue = &Issue{
		id: ApiKeyMissingId,
		mdMsg: `
# No API key provided!

Cloud operations need an API key and none was found.

## Where we look (in order):
1. The PIXELL_API_KEY environment variable
2. ~/.pixell/config.json

## Things you can try:
- Export the key for this shell:
~~~
$ export PIXELL_API_KEY=sk-...
~~~

- Or store it once in the config file:
~~~json
{"api_key": "sk-..."}
~~~`,
		docLinks: []HttpLink{"https://docs.pixell.global/authentication"},
	}

	authFailedIssue = &Issue{
		id: AuthFailedId,
		mdMsg: `
# Authentication failed!

The cloud API rejected your API key.

## Common causes:
- The key was revoked or has a typo
- The key belongs to a different environment (a local key sent to
  prod, or the other way around)

## Things you can try:
- Check which environment you are targeting:
~~~
$ pixell deploy --env prod ...
~~~

- Issue a fresh key from the dashboard and export it:
~~~
$ export PIXELL_API_KEY=sk-...
~~~`,
		docLinks: []HttpLink{"https://docs.pixell.global/authentication"},
		extLinks: []HttpLink{"https://cloud.pixell.global/settings/api-keys"},
	}

	insufficientCreditsIssue = &Issue{
		id: InsufficientCreditsId,
		mdMsg: `
# Insufficient credits!

Your account does not have enough credits for this deployment. The
error message states how many are required and how many you have.

## Things you can try:
- Top up from the billing page
- Remove unused deployments to free reserved credits`,
		docLinks: []HttpLink{"https://docs.pixell.global/billing"},
		extLinks: []HttpLink{"https://cloud.pixell.global/billing"},
	}

	appIdMissingIssue = &Issue{
		id: AppIdMissingId,
		mdMsg: `
# No app ID provided!

Cloud operations act on one agent app, and none was named.

## Things you can try:
- Pass it explicitly:
~~~
$ pixell secrets list --app-id app-123
~~~

- Or export it once per shell:
~~~
$ export PIXELL_APP_ID=app-123
~~~`,
		docLinks: []HttpLink{"https://docs.pixell.global/apps"},
	}

	issues = map[Id]*Issue{
		manifestInvalidIssue.Id():     manifestInvalidIssue,
		missingEnvFileIssue.Id():      missingEnvFileIssue,
		validationFailedIssue.Id():    validationFailedIssue,
		artifactCorruptIssue.Id():     artifactCorruptIssue,
		apiKeyMissingIssue.Id():       apiKeyMissingIssue,
		authFailedIssue.Id():          authFailedIssue,
		insufficientCreditsIssue.Id(): insufficientCreditsIssue,
		appIdMissingIssue.Id():        appIdMissingIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
