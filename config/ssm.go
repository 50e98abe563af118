package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// parameterFetcher is the slice of the SSM client used here.
type parameterFetcher interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// MergeSSM overlays every parameter found under SSM_PARAMETER_PATH onto config.
// A parameter /appcollab/prod/supabase_jwt_secret becomes SUPABASE_JWT_SECRET.
// Without SSM_PARAMETER_PATH the config is returned untouched.
func MergeSSM(ctx context.Context, c map[string]string) (map[string]string, error) {
	prefix := GetString(c, "SSM_PARAMETER_PATH", "")
	if prefix == "" {
		return c, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if region := GetString(c, "AWS_REGION", ""); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return c, fmt.Errorf("load aws config: %w", err)
	}

	params, err := fetchParameters(ctx, ssm.NewFromConfig(awsCfg), prefix)
	if err != nil {
		return c, err
	}
	return Merge(c, params), nil
}

func fetchParameters(ctx context.Context, client parameterFetcher, prefix string) (map[string]string, error) {
	out := make(map[string]string)
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("read ssm parameters under %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			name := aws.ToString(p.Name)
			out[parameterKey(name)] = aws.ToString(p.Value)
		}
	}
	return out, nil
}

func parameterKey(name string) string {
	key := strings.ToUpper(path.Base(name))
	return strings.NewReplacer("-", "_", ".", "_").Replace(key)
}
