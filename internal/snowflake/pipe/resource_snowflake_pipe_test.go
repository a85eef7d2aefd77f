// Copyright (c) DeltaStream, Inc.
// SPDX-License-Identifier: Apache-2.0

package pipe

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"

	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/object"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/sqlexec"
	"github.com/deltastreaminc/terraform-provider-snowflake-objects/internal/snowflake/sqlexec/sqlexectest"
)

func TestCreatePipe(t *testing.T) {
	g := NewGomegaWithT(t)
	executor := &sqlexectest.Executor{}
	p, err := object.NewProvider(Definition, executor, nil)
	g.Expect(err).To(BeNil())

	executor.On("Execute", mock.Anything, sqlexec.Statement{
		Lines: []string{
			"CREATE PIPE db.sc.p1",
			"AUTO_INGEST = TRUE",
			"AWS_SNS_TOPIC = ?",
			"AS COPY INTO db.sc.events FROM @db.sc.landing",
		},
		Bindings: []any{"arn:aws:sns:us-east-1:001234567890:s3_bucket"},
	}).Return(nil).Once()

	_, err = p.Create(context.Background(), object.Inputs{
		"database":      "db",
		"schema":        "sc",
		"name":          "p1",
		"auto_ingest":   true,
		"aws_sns_topic": "arn:aws:sns:us-east-1:001234567890:s3_bucket",
		"code":          "  COPY INTO db.sc.events FROM @db.sc.landing\n",
	})
	g.Expect(err).To(BeNil())
	executor.AssertExpectations(t)
}

func TestCopyStatementRequiresCode(t *testing.T) {
	g := NewGomegaWithT(t)

	_, err := copyStatement("p1", "db.sc.p1", object.Inputs{"code": "   "})
	g.Expect(err).To(MatchError(object.ErrMissingRequiredAttribute))

	lines, err := copyStatement("p1", "db.sc.p1", object.Inputs{"code": "COPY INTO t FROM @s"})
	g.Expect(err).To(BeNil())
	g.Expect(lines).To(Equal([]string{"AS COPY INTO t FROM @s"}))
}
