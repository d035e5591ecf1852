// Package interaction implements the user_interaction unit. For every
// critical or high gap it asks an AnswerSource for information and folds the
// answers into a copy of the CV.
package interaction
