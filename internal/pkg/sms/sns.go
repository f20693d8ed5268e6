package sms

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// AttrSMSType is the SNS attribute selecting promotional or transactional routing.
const AttrSMSType = "AWS.SNS.SMS.SMSType"

type snsPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNS implements SMS with Amazon SNS direct publish.
type SNS struct {
	client     snsPublisher
	attributes map[string]types.MessageAttributeValue
}

// SNSOptions configures SNS client initialization.
type SNSOptions struct {
	// Region is the AWS region.
	Region string
	// Endpoint overrides the AWS endpoint, for example a localstack URL.
	Endpoint string
	// AccessKey is the static access key ID.
	AccessKey string
	// SecretKey is the static secret access key.
	SecretKey string
	// SessionToken is the optional session token.
	SessionToken string
	// Attributes are sent as string message attributes on every publish.
	// AttrSMSType defaults to Transactional when absent.
	Attributes map[string]string
}

// NewSNS builds an SNS driver from opts.
func NewSNS(ctx context.Context, opts SNSOptions) (*SNS, error) {
	cfgOpts := []func(*config.LoadOptions) error{}
	if opts.Region != "" {
		cfgOpts = append(cfgOpts, config.WithRegion(opts.Region))
	} else if opts.Endpoint != "" {
		cfgOpts = append(cfgOpts, config.WithRegion("us-east-1"))
	}
	if opts.AccessKey != "" || opts.SecretKey != "" {
		cfgOpts = append(cfgOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, opts.SessionToken),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, err
	}

	client := sns.NewFromConfig(cfg, func(o *sns.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return newSNSWithClient(client, opts.Attributes), nil
}

func newSNSWithClient(client snsPublisher, attrs map[string]string) *SNS {
	values := make(map[string]types.MessageAttributeValue, len(attrs)+1)
	values[AttrSMSType] = types.MessageAttributeValue{
		DataType:    aws.String("String"),
		StringValue: aws.String("Transactional"),
	}
	for k, v := range attrs {
		values[k] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(v),
		}
	}

	return &SNS{client: client, attributes: values}
}

func (s *SNS) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(msg.Phone),
		Message:           aws.String(msg.Text),
		MessageAttributes: s.attributes,
	})
	if err != nil {
		return err
	}

	slog.DebugContext(ctx, "sms accepted by sns", "to", MaskPhone(msg.Phone), "message_id", aws.ToString(out.MessageId))
	return nil
}

// Close implements io.Closer. The SNS client holds no resources.
func (s *SNS) Close() error {
	return nil
}
