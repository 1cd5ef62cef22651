// postlens analyzes social media posts for engagement.
//
// Usage:
//
//	postlens analyze post.txt
//	postlens batch ./drafts
//	postlens serve --addr :5000
package main

import "github.com/spacesedan/postlens/internal/cli"

func main() {
	cli.Execute()
}
