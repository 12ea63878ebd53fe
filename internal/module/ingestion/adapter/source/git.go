package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	giturls "github.com/whilp/git-urls"

	"github.com/jinford/dev-ingest/internal/module/ingestion/domain"
)

// GitClient は Git リポジトリのクローンと読み出しを提供します
type GitClient struct {
	// SSH認証用の秘密鍵パス
	sshKeyPath string
	// SSH秘密鍵のパスワード（パスフレーズ）
	sshPassword string
}

// NewGitClient は新しいGitClientを作成します
func NewGitClient(sshKeyPath, sshPassword string) *GitClient {
	return &GitClient{
		sshKeyPath:  sshKeyPath,
		sshPassword: sshPassword,
	}
}

// URLToDirectoryName はGit URLをディレクトリ名に変換します
// 例: https://github.com/hoge/fuga.git -> github.com/hoge/fuga
// 例: git@github.com:hoge/fuga.git -> github.com/hoge/fuga
func URLToDirectoryName(gitURL string) (string, error) {
	u, err := giturls.Parse(gitURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse git URL: %w", err)
	}

	hostname := u.Hostname()
	if hostname == "" {
		hostname = u.Host
	}

	path := strings.TrimPrefix(u.Path, "/")
	path = strings.TrimSuffix(path, ".git")

	return filepath.Join(hostname, path), nil
}

// CloneOrPull はリポジトリが存在しない場合はクローン、存在する場合はfetchしてrefをチェックアウトします
func (c *GitClient) CloneOrPull(ctx context.Context, url, destDir, ref string) error {
	if _, err := os.Stat(filepath.Join(destDir, ".git")); os.IsNotExist(err) {
		return c.clone(ctx, url, destDir)
	}
	return c.pull(ctx, destDir, ref)
}

func (c *GitClient) clone(ctx context.Context, url, destDir string) error {
	auth, err := c.sshAuth()
	if err != nil {
		return err
	}

	opts := &git.CloneOptions{URL: url}
	if auth != nil {
		opts.Auth = auth
	}
	if _, err := git.PlainCloneContext(ctx, destDir, false, opts); err != nil {
		return fmt.Errorf("failed to clone repository: %w", err)
	}
	return nil
}

func (c *GitClient) pull(ctx context.Context, repoPath, ref string) error {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	auth, err := c.sshAuth()
	if err != nil {
		return err
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return fmt.Errorf("failed to get remote: %w", err)
	}

	opts := &git.FetchOptions{}
	if auth != nil {
		opts.Auth = auth
	}
	if err := remote.FetchContext(ctx, opts); err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("failed to fetch: %w", err)
	}

	// ref 未指定時は現在のブランチのリモート側に追従する
	if ref == "" {
		head, err := repo.Head()
		if err != nil {
			return fmt.Errorf("failed to get HEAD: %w", err)
		}
		if !head.Name().IsBranch() {
			return nil
		}
		ref = head.Name().Short()
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	hash, err := resolveRef(repo, ref)
	if err != nil {
		return err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: hash, Force: true}); err != nil {
		return fmt.Errorf("failed to checkout: %w", err)
	}
	return nil
}

// TreeFile はコミットツリー内のファイル
type TreeFile struct {
	Path    string
	Size    int64
	Content []byte
}

// ReadTree は指定refのコミットツリーを走査し、keep が true を返したファイルの内容を返します
// ref が空の場合はHEADを使います。戻り値の2つ目は解決したコミットハッシュです
func (c *GitClient) ReadTree(ctx context.Context, repoPath, ref string, keep func(path string, size int64) bool) ([]TreeFile, string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open repository: %w", err)
	}

	if ref == "" {
		ref = "HEAD"
	}
	hash, err := resolveRef(repo, ref)
	if err != nil {
		return nil, "", err
	}

	commit, err := repo.CommitObject(hash)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get commit object: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get tree: %w", err)
	}

	var files []TreeFile
	err = tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !f.Mode.IsFile() || !keep(f.Name, f.Size) {
			return nil
		}
		content, err := f.Contents()
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", f.Name, err)
		}
		files = append(files, TreeFile{Path: f.Name, Size: f.Size, Content: []byte(content)})
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to iterate files: %w", err)
	}

	return files, hash.String(), nil
}

// sshAuth はSSH鍵が設定されていて存在する場合のみ認証情報を返します
func (c *GitClient) sshAuth() (*ssh.PublicKeys, error) {
	if c.sshKeyPath == "" {
		return nil, nil
	}
	if _, err := os.Stat(c.sshKeyPath); os.IsNotExist(err) {
		return nil, nil
	}

	auth, err := ssh.NewPublicKeysFromFile("git", c.sshKeyPath, c.sshPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key: %w", err)
	}
	return auth, nil
}

// resolveRef はリモートブランチ、ブランチ、タグ、HEAD、コミットハッシュの順にrefを解決します
// fetch 済みの origin 側をローカルブランチより優先します
func resolveRef(repo *git.Repository, ref string) (plumbing.Hash, error) {
	if r, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", ref), true); err == nil {
		return r.Hash(), nil
	}
	if r, err := repo.Reference(plumbing.NewBranchReferenceName(ref), true); err == nil {
		return r.Hash(), nil
	}
	if r, err := repo.Reference(plumbing.NewTagReferenceName(ref), true); err == nil {
		return peelTag(repo, r.Hash()), nil
	}
	if ref == "HEAD" {
		if r, err := repo.Head(); err == nil {
			return r.Hash(), nil
		}
	}

	hash := plumbing.NewHash(ref)
	if !hash.IsZero() {
		if _, err := repo.CommitObject(hash); err == nil {
			return hash, nil
		}
	}

	return plumbing.ZeroHash, fmt.Errorf("failed to resolve ref: %s", ref)
}

// peelTag は注釈付きタグであれば指すコミットのハッシュを返します
func peelTag(repo *git.Repository, hash plumbing.Hash) plumbing.Hash {
	tag, err := repo.TagObject(hash)
	if err != nil {
		return hash
	}
	commit, err := tag.Commit()
	if err != nil {
		return hash
	}
	return commit.Hash
}

// GitSource はGitリポジトリの指定refを取り込み対象とするSourceです
type GitSource struct {
	client      *GitClient
	url         string
	ref         string
	cloneDir    string
	maxFileSize int64
	log         *slog.Logger
}

var _ domain.Source = (*GitSource)(nil)

// GitOption は GitSource のオプション
type GitOption func(*GitSource)

// WithGitLogger はロガーを設定します
func WithGitLogger(logger *slog.Logger) GitOption {
	return func(s *GitSource) {
		s.log = logger
	}
}

// WithGitMaxFileSize はファイルサイズ上限を設定します
func WithGitMaxFileSize(n int64) GitOption {
	return func(s *GitSource) {
		if n > 0 {
			s.maxFileSize = n
		}
	}
}

// NewGitSource は新しいGitSourceを作成します
// リポジトリは cloneDir 配下の URLToDirectoryName のディレクトリに展開されます
func NewGitSource(client *GitClient, url, ref, cloneDir string, opts ...GitOption) *GitSource {
	s := &GitSource{
		client:      client,
		url:         url,
		ref:         ref,
		cloneDir:    cloneDir,
		maxFileSize: DefaultMaxFileSize,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Files はリポジトリを同期し、除外パターンに従ってrefのファイルを返します
func (s *GitSource) Files(ctx context.Context) ([]domain.File, error) {
	dirName, err := URLToDirectoryName(s.url)
	if err != nil {
		return nil, err
	}
	repoPath := filepath.Join(s.cloneDir, dirName)

	s.log.Info("syncing git repository", "url", s.url, "ref", s.ref, "path", repoPath)
	if err := s.client.CloneOrPull(ctx, s.url, repoPath, s.ref); err != nil {
		return nil, err
	}

	filter, err := NewIgnoreFilter(repoPath)
	if err != nil {
		return nil, err
	}

	tree, commit, err := s.client.ReadTree(ctx, repoPath, s.ref, func(path string, size int64) bool {
		if filter.ShouldIgnore(path) {
			return false
		}
		if size > s.maxFileSize {
			s.log.Warn("skipping large file", "path", path, "size", size, "limit", s.maxFileSize)
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("git repository loaded", "url", s.url, "commit", commit, "fileCount", len(tree))

	files := make([]domain.File, len(tree))
	for i, f := range tree {
		files[i] = domain.File{Path: f.Path, Content: f.Content, SourceURI: s.url}
	}
	return files, nil
}
