package mockapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/user"
)

func testConfig() *core.Config {
	return &core.Config{
		AppName:   "Darasa",
		Env:       "TEST",
		TestMode:  true,
		SecretKey: []byte("test-secret"),
		API: core.APIConfig{
			JWTExpirationDelta: time.Hour,
		},
	}
}

type testApp struct {
	server Server
	store  *Store
	conf   *core.Config
}

func setup(t *testing.T) *testApp {
	t.Helper()
	conf := testConfig()
	store := NewStore()
	if err := Seed(store); err != nil {
		t.Fatalf("Seed() failed, %v", err)
	}
	server := NewServer(&Options{
		Conf:           conf,
		Store:          store,
		DisableReqLogs: true,
	})
	return &testApp{server: server, store: store, conf: conf}
}

func (a *testApp) userByEmail(t *testing.T, email string) *StoredUser {
	t.Helper()
	usr, ok := a.store.UserByEmail(email)
	if !ok {
		t.Fatalf("seed user %s missing", email)
	}
	return usr
}

func (a *testApp) seededCourse(t *testing.T) *StoredCourse {
	t.Helper()
	for _, c := range a.store.courses {
		return c
	}
	t.Fatal("no seeded course")
	return nil
}

func (a *testApp) seededQuiz(t *testing.T) *StoredQuiz {
	t.Helper()
	quizzes := a.store.CourseQuizzes(a.seededCourse(t).ID)
	if len(quizzes) == 0 {
		t.Fatal("no seeded quiz")
	}
	return quizzes[0]
}

func (a *testApp) token(t *testing.T, usr *StoredUser) string {
	t.Helper()
	claims := user.NewClaims(userView(usr), a.conf.AppName, a.conf.API.JWTExpirationDelta)
	token, err := GenerateToken(claims, a.conf.SecretKey)
	if err != nil {
		t.Fatalf("GenerateToken() failed, %v", err)
	}
	return token
}

func (a *testApp) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.server.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return out
}

func Test_authAPI_login(t *testing.T) {
	app := setup(t)

	t.Run("valid credentials", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "amina@darasa.test",
			"password": "secret",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeMap(t, rec)
		assert.NotEmpty(t, resp["token"])
		usr, _ := resp["user"].(map[string]interface{})
		require.NotNil(t, usr)
		assert.Equal(t, "Amina Hassan", usr["name"])
		assert.Equal(t, user.RoleStudent, usr["role"])
		assert.NotEmpty(t, usr["_id"]) // mongo-flavored key, like the real service

		// the issued token round-trips through the client's session parser
		sess, err := user.NewSession(resp["token"].(string), app.conf.SecretKey)
		require.NoError(t, err)
		assert.True(t, sess.IsStudent())
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "amina@darasa.test",
			"password": "nope",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "authentication failed", decodeMap(t, rec)["message"])
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "nobody@darasa.test",
			"password": "secret",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_authAPI_verifyStudent(t *testing.T) {
	app := setup(t)

	rec := app.request(http.MethodGet, "/api/auth/verify-student/STU-1001", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeMap(t, rec)
	assert.Equal(t, true, resp["success"])
	student, _ := resp["student"].(map[string]interface{})
	require.NotNil(t, student)
	assert.Equal(t, "Amina Hassan", student["name"])

	// unknown IDs answer 200 with success:false, not 404
	rec = app.request(http.MethodGet, "/api/auth/verify-student/STU-9999", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeMap(t, rec)["success"])
}

func Test_courseAPI_retrieve(t *testing.T) {
	app := setup(t)
	crs := app.seededCourse(t)

	// course pages are public
	rec := app.request(http.MethodGet, "/api/courses/"+crs.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeMap(t, rec)
	courseData, _ := resp["course"].(map[string]interface{})
	require.NotNil(t, courseData)
	assert.Equal(t, crs.Title, courseData["title"])
	videos, _ := resp["videos"].([]interface{})
	assert.Len(t, videos, 2)

	rec = app.request(http.MethodGet, "/api/courses/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_quizAPI_retrieve(t *testing.T) {
	app := setup(t)
	qz := app.seededQuiz(t)
	student := app.userByEmail(t, "amina@darasa.test")

	t.Run("requires auth", func(t *testing.T) {
		rec := app.request(http.MethodGet, "/api/quizzes/"+qz.ID, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("doc-wrapped questions without answers", func(t *testing.T) {
		rec := app.request(http.MethodGet, "/api/quizzes/"+qz.ID, app.token(t, student), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeMap(t, rec)
		quizData, _ := resp["quiz"].(map[string]interface{})
		require.NotNil(t, quizData)
		assert.Equal(t, float64(qz.TimeLimitMin), quizData["timeLimit"]) // minutes on the wire

		questions, _ := quizData["questions"].([]interface{})
		require.Len(t, questions, len(qz.Questions))
		first, _ := questions[0].(map[string]interface{})
		require.NotNil(t, first)
		doc, _ := first["_doc"].(map[string]interface{})
		require.NotNil(t, doc, "questions must be nested under _doc on retrieve")
		assert.NotEmpty(t, doc["question"])
		assert.NotContains(t, doc, "correct", "correct answers must never leave the server")
	})

	t.Run("course listing is public and flat", func(t *testing.T) {
		rec := app.request(http.MethodGet, "/api/quizzes/course/"+qz.CourseID, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeMap(t, rec)
		quizzes, _ := resp["quizzes"].([]interface{})
		require.Len(t, quizzes, 1)
		listed, _ := quizzes[0].(map[string]interface{})
		questions, _ := listed["questions"].([]interface{})
		require.NotEmpty(t, questions)
		flat, _ := questions[0].(map[string]interface{})
		assert.NotContains(t, flat, "_doc")
	})
}

func Test_quizAPI_submit(t *testing.T) {
	app := setup(t)
	qz := app.seededQuiz(t)
	student := app.userByEmail(t, "amina@darasa.test")
	teacher := app.userByEmail(t, "joseph@darasa.test")

	// the student must be enrolled for the result to be recorded
	app.store.CreateEnrollment(student.ID, qz.CourseID)

	t.Run("teachers cannot take quizzes", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/quizzes/"+qz.ID+"/submit", app.token(t, teacher),
			map[string]interface{}{"answers": []int{1, 1, 3}, "timeTaken": 30})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Only students can take quizzes", decodeMap(t, rec)["message"])
	})

	t.Run("answer count must match", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/quizzes/"+qz.ID+"/submit", app.token(t, student),
			map[string]interface{}{"answers": []int{1}, "timeTaken": 30})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("grades and records the result", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/quizzes/"+qz.ID+"/submit", app.token(t, student),
			map[string]interface{}{"answers": []int{1, 1, 3}, "timeTaken": 42})
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeMap(t, rec)
		assert.Equal(t, float64(100), resp["score"])
		assert.Equal(t, float64(3), resp["correctAnswers"])
		assert.Equal(t, float64(42), resp["timeTaken"])

		enr, ok := app.store.Enrollment(student.ID, qz.CourseID)
		require.True(t, ok)
		assert.True(t, enr.Progress.QuizCompleted(qz.ID))
		assert.Equal(t, 100, enr.Progress.QuizScore(qz.ID))
	})

	t.Run("a worse retake keeps the best score", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/quizzes/"+qz.ID+"/submit", app.token(t, student),
			map[string]interface{}{"answers": []int{0, 0, 0}, "timeTaken": 10})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(0), decodeMap(t, rec)["score"])

		enr, _ := app.store.Enrollment(student.ID, qz.CourseID)
		assert.Equal(t, 100, enr.Progress.QuizScore(qz.ID))
	})
}

func Test_enrollmentAPI(t *testing.T) {
	app := setup(t)
	crs := app.seededCourse(t)
	student := app.userByEmail(t, "amina@darasa.test")
	teacher := app.userByEmail(t, "joseph@darasa.test")
	studentToken := app.token(t, student)

	t.Run("check before enrolling", func(t *testing.T) {
		rec := app.request(http.MethodGet, "/api/enrollments/check/"+crs.ID, studentToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, decodeMap(t, rec)["isEnrolled"])
	})

	t.Run("teachers cannot enroll", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/enrollments/enroll", app.token(t, teacher),
			map[string]string{"courseId": crs.ID})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Only students can enroll in courses", decodeMap(t, rec)["message"])
	})

	t.Run("students enroll once", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/enrollments/enroll", studentToken,
			map[string]string{"courseId": crs.ID})
		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeMap(t, rec)
		assert.Equal(t, true, resp["success"])
		enrData, _ := resp["enrollment"].(map[string]interface{})
		require.NotNil(t, enrData)
		firstID := enrData["_id"]

		// enrolling again is idempotent
		rec = app.request(http.MethodPost, "/api/enrollments/enroll", studentToken,
			map[string]string{"courseId": crs.ID})
		require.Equal(t, http.StatusCreated, rec.Code)
		again := decodeMap(t, rec)["enrollment"].(map[string]interface{})
		assert.Equal(t, firstID, again["_id"])
	})

	t.Run("video progress", func(t *testing.T) {
		videos := app.store.CourseVideos(crs.ID)
		require.NotEmpty(t, videos)
		videoID := videos[0].ID

		rec := app.request(http.MethodPut, "/api/enrollments/update-video-progress", studentToken,
			map[string]string{"courseId": crs.ID, "videoId": videoID})
		require.Equal(t, http.StatusOK, rec.Code)

		enr, ok := app.store.Enrollment(student.ID, crs.ID)
		require.True(t, ok)
		assert.True(t, enr.Progress.VideoCompleted(videoID))

		// watch-video resolves the course from the video
		rec = app.request(http.MethodPost, "/api/enrollments/watch-video/"+videoID, studentToken,
			map[string]int{"watchTime": 480})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeMap(t, rec)["success"])
	})

	t.Run("unknown course", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/enrollments/enroll", studentToken,
			map[string]string{"courseId": "nope"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
