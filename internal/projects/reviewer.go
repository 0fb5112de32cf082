package projects

import (
	"context"
	"fmt"
	"time"

	authv1 "k8s.io/api/authorization/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

const reviewTimeout = 10 * time.Second

// Reviewer decides whether a caller is a cluster admin.
type Reviewer struct {
	client kubernetes.Interface
}

// NewReviewer creates a Reviewer backed by client. The client's identity
// needs permission to create subjectaccessreviews.
func NewReviewer(client kubernetes.Interface) *Reviewer {
	return &Reviewer{client: client}
}

// IsAdmin asks the API server whether user, as a member of groups, may do
// every verb on every resource. An anonymous caller is never an admin.
func (r *Reviewer) IsAdmin(ctx context.Context, user string, groups []string) (bool, error) {
	if user == "" {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, reviewTimeout)
	defer cancel()

	sar := &authv1.SubjectAccessReview{
		Spec: authv1.SubjectAccessReviewSpec{
			User:   user,
			Groups: groups,
			ResourceAttributes: &authv1.ResourceAttributes{
				Verb:     "*",
				Resource: "*",
			},
		},
	}

	resp, err := r.client.AuthorizationV1().SubjectAccessReviews().Create(ctx, sar, metav1.CreateOptions{})
	if err != nil {
		return false, fmt.Errorf("reviewing cluster-admin access for %s: %w", user, err)
	}
	return resp.Status.Allowed, nil
}
