// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package model defines the data structures for the application. This file,
// `examples.go`, provides factory functions for the hardcoded example videos
// and results the mock backend starts with.
//
// The examples give the dashboard something to show before anything has been
// uploaded: two finished lectures, one of them with hand written transcripts
// and questions, and one lecture that is still processing.
package model

import "time"

// Example video ids.
const (
	ExampleIntroVideoId    = "1"
	ExampleMLVideoId       = "2"
	ExampleDatabaseVideoId = "3"
)

// GetExampleVideos creates the seed videos, in dashboard order.
//
// Inputs:
//   - now: The reference time creation dates are derived from.
//
// Outputs:
//   - []*Video: Three videos; the last one is still processing.
func GetExampleVideos(now time.Time) []*Video {
	return []*Video{
		{
			Id:            ExampleIntroVideoId,
			Title:         "Introduction to Computer Science",
			Duration:      3720,
			Status:        StatusCompleted,
			CreatedAt:     now,
			QuestionCount: 52,
		},
		{
			Id:            ExampleMLVideoId,
			Title:         "Machine Learning Fundamentals",
			Duration:      2850,
			Status:        StatusCompleted,
			CreatedAt:     now.Add(-24 * time.Hour),
			QuestionCount: 38,
		},
		{
			Id:            ExampleDatabaseVideoId,
			Title:         "Advanced Database Systems",
			Duration:      4500,
			Status:        StatusProcessing,
			CreatedAt:     now.Add(-time.Hour),
			QuestionCount: 0,
		},
	}
}

// GetExampleResults creates the stored results of the introductory lecture.
// Only the first fifteen minutes are transcribed.
//
// Inputs:
//   - now: The creation time recorded on the results.
func GetExampleResults(now time.Time) *Results {
	url := "https://example.com/video1.mp4"
	return &Results{
		Id:        ExampleIntroVideoId,
		Title:     "Introduction to Computer Science",
		Duration:  3720,
		VideoUrl:  &url,
		CreatedAt: now,
		Segments: []*Segment{
			{
				Id:        "seg1",
				StartTime: 0,
				EndTime:   300,
				Transcript: "Welcome to Introduction to Computer Science. In this course, we'll be exploring the fundamental " +
					"concepts of computing, algorithms, and programming. Computer science is about problem-solving using " +
					"computers. It involves the study of algorithms, which are step-by-step procedures for solving problems, " +
					"and data structures, which are ways of organizing and storing data.",
				Questions: []*Question{
					{
						Text: "What is the main focus of computer science according to the lecture?",
						Options: []string{
							"Building computers and hardware",
							"Problem-solving using computers",
							"Creating websites and mobile apps",
							"Learning programming languages",
						},
						Answer: "Problem-solving using computers",
					},
					{
						Text: "What are algorithms as defined in the lecture?",
						Options: []string{
							"Mathematical equations",
							"Computer programs",
							"Step-by-step procedures for solving problems",
							"Data organization methods",
						},
						Answer: "Step-by-step procedures for solving problems",
					},
					{
						Text: "What does the study of computer science involve?",
						Options: []string{
							"Only programming languages",
							"Only hardware design",
							"Algorithms and data structures",
							"Only software applications",
						},
						Answer: "Algorithms and data structures",
					},
				},
			},
			{
				Id:        "seg2",
				StartTime: 300,
				EndTime:   600,
				Transcript: "Let's begin by discussing what programming is. Programming is the process of creating a set of " +
					"instructions that tell a computer how to perform a task. These instructions are written in programming " +
					"languages, which are formal languages designed to communicate instructions to a machine. There are many " +
					"programming languages, such as Python, Java, C++, and JavaScript, each with its own syntax and use cases.",
				Questions: []*Question{
					{
						Text: "What is programming according to the lecture?",
						Options: []string{
							"Writing documentation for software",
							"Creating a set of instructions for computers",
							"Designing user interfaces",
							"Testing software applications",
						},
						Answer: "Creating a set of instructions for computers",
					},
					{
						Text:    "Which of the following is NOT mentioned as a programming language in the lecture?",
						Options: []string{"Python", "Java", "C++", "Ruby"},
						Answer:  "Ruby",
					},
				},
			},
			{
				Id:        "seg3",
				StartTime: 600,
				EndTime:   900,
				Transcript: "Now, let's talk about data structures. Data structures are ways of organizing and storing data so " +
					"that it can be accessed and modified efficiently. Common data structures include arrays, linked lists, " +
					"stacks, queues, trees, and graphs. The choice of data structure can significantly impact the performance " +
					"of an algorithm, so it's essential to understand their properties and use cases.",
				Questions: []*Question{
					{
						Text: "What is the purpose of data structures according to the lecture?",
						Options: []string{
							"To make code look neat and organized",
							"To organize data for efficient access and modification",
							"To encrypt sensitive information",
							"To compress data for storage",
						},
						Answer: "To organize data for efficient access and modification",
					},
					{
						Text:    "Which data structure is NOT mentioned in the lecture?",
						Options: []string{"Arrays", "Linked lists", "Hash tables", "Stacks"},
						Answer:  "Hash tables",
					},
					{
						Text: "According to the lecture, what impact can the choice of data structure have?",
						Options: []string{
							"It can affect the visual design of the application",
							"It can impact the performance of an algorithm",
							"It determines which programming language must be used",
							"It influences the hardware requirements",
						},
						Answer: "It can impact the performance of an algorithm",
					},
				},
			},
		},
	}
}
