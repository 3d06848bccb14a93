package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/fitpay/fitpay-admin/pkg/client"
)

// Example demonstrates basic usage of the FitPay client
func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	ctx := context.Background()

	page, err := c.Students().List(ctx, &client.ListOptions{Page: 0, Size: 10, Search: "maria"})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Found %d students in %d pages\n", page.TotalElements, page.TotalPages)
}

// ExampleEnrollmentService_Create demonstrates activating an enrollment
func ExampleEnrollmentService_Create() {
	c := client.NewClient(client.Config{})

	method := client.MethodPix
	enrollment, err := c.Enrollments().Create(context.Background(), client.EnrollmentRequest{
		Student:       client.Ref{ID: 1},
		Plan:          client.Ref{ID: 2},
		StartDate:     client.NewDate(2026, 1, 1),
		EndDate:       client.NewDate(2026, 1, 31),
		PaymentMethod: &method,
		Status:        client.StatusActive,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Enrollment %d is %s\n", enrollment.ID, enrollment.Status)
}

// ExampleAPIError demonstrates error handling
func ExampleAPIError() {
	c := client.NewClient(client.Config{})

	err := c.Plans().Delete(context.Background(), 99999)
	if apiErr, ok := client.AsAPIError(err); ok {
		if apiErr.IsConflict() {
			fmt.Println("Plan still referenced:", apiErr.UserMessage())
		} else if apiErr.IsNotFound() {
			fmt.Println("Plan not found")
		}
	}
}
