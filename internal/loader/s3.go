// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/tfctl/rpgdex/internal/aws"
	"github.com/tfctl/rpgdex/internal/cacheutil"
	"github.com/tfctl/rpgdex/internal/log"
)

// cacheSubdir is where downloaded objects are cached.
var cacheSubdir = []string{"s3"}

// s3Source reads dataset objects beneath an S3 prefix. A prefix naming a
// SQLite object is downloaded and read through sqliteSource.
type s3Source struct {
	api    aws.ObjectAPI
	bucket string
	prefix string
}

func openS3(ctx context.Context, location string, o *options) (source, error) {
	bucket, prefix, err := aws.ParseURI(location)
	if err != nil {
		return nil, err
	}

	api := o.s3
	if api == nil {
		var awsOpts []aws.Option
		if o.region != "" {
			awsOpts = append(awsOpts, aws.WithRegion(o.region))
		}
		cfg, err := aws.LoadAWSConfig(ctx, awsOpts...)
		if err != nil {
			return nil, err
		}
		api = aws.NewS3(cfg, aws.WithS3Endpoint(o.endpoint))
	}

	src := &s3Source{api: api, bucket: bucket, prefix: prefix}
	if isSQLite(prefix) {
		return src.openSQLite(ctx)
	}
	return src, nil
}

func (s *s3Source) read(ctx context.Context, name string) ([]string, [][]string, string, error) {
	tried := candidates(name)
	for _, file := range tried {
		key := aws.ObjectKey(s.prefix, file)
		data, err := s.fetch(ctx, key)
		if errors.Is(err, aws.ErrObjectNotFound) {
			continue
		}
		uri := fmt.Sprintf("s3://%s/%s", s.bucket, key)
		if err != nil {
			return nil, nil, uri, err
		}
		columns, records, err := decode(uri, data)
		return columns, records, uri, err
	}

	return nil, nil, "", fmt.Errorf("%w: %s in s3://%s/%s (tried %s)",
		ErrNotFound, name, s.bucket, s.prefix, strings.Join(tried, ", "))
}

func (s *s3Source) close() error { return nil }

// fetch returns the object body, served from the cache when the ETag is
// unchanged.
func (s *s3Source) fetch(ctx context.Context, key string) ([]byte, error) {
	etag, err := aws.ETag(ctx, s.api, s.bucket, key)
	if err != nil {
		return nil, err
	}

	cacheKey := cacheutil.Key(s.bucket, key, etag)
	if entry, ok := cacheutil.Read(cacheSubdir, cacheKey); ok {
		return entry.Data, nil
	}

	data, err := aws.GetObject(ctx, s.api, s.bucket, key)
	if err != nil {
		return nil, err
	}
	if _, err := cacheutil.Write(cacheSubdir, cacheKey, data); err != nil {
		log.WithError(err).Warnf("caching s3://%s/%s", s.bucket, key)
	}
	return data, nil
}

// openSQLite downloads the database object and opens the local copy. The
// cached file is used directly; without a cache the body goes to a temp file
// removed on close.
func (s *s3Source) openSQLite(ctx context.Context) (source, error) {
	etag, err := aws.ETag(ctx, s.api, s.bucket, s.prefix)
	if err != nil {
		return nil, err
	}

	cacheKey := cacheutil.Key(s.bucket, s.prefix, etag)
	if p, ok := cacheutil.EntryPath(cacheSubdir, cacheKey); ok && cacheutil.Enabled() {
		log.Debugf("cache hit: key=%s", cacheKey)
		return openSQLite(ctx, p)
	}

	data, err := aws.GetObject(ctx, s.api, s.bucket, s.prefix)
	if err != nil {
		return nil, err
	}

	p, err := cacheutil.Write(cacheSubdir, cacheKey, data)
	if err != nil {
		log.WithError(err).Warnf("caching s3://%s/%s", s.bucket, s.prefix)
	}
	if p != "" {
		return openSQLite(ctx, p)
	}

	tmp, err := os.CreateTemp("", "rpgdex-*"+path.Ext(s.prefix))
	if err != nil {
		return nil, err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}

	db, err := openSQLite(ctx, tmp.Name())
	if err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}
	return &tempSQLite{sqliteSource: db}, nil
}

// tempSQLite removes its database file on close.
type tempSQLite struct {
	*sqliteSource
}

func (t *tempSQLite) close() error {
	err := t.sqliteSource.close()
	return errors.Join(err, os.Remove(t.path))
}
